package paths

const caseInsensitiveFS = true
