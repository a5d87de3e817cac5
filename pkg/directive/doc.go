// Package directive parses the alias configuration language.
//
// The language is line oriented and its keywords are case-insensitive:
//
//	# comment
//	export PAGER=less            global variable, applies to every later alias
//	LANG=C                       one-shot variable, applies to the next alias only
//	EXEC=5                       detach after 5 seconds (next alias only)
//	EXCL_ARG=1,3                 caller args exempt from wildcard expansion
//	PREFIX='[%T] '               prefix every output line
//	CHARSET_CONV='/diff/ && "UTF-8,GBK"'
//	alias git="C:/Program Files/Git/bin/git.exe"
//
// A conditional value has the form '/regex/ && "value"': the value only takes
// effect when the invocation's joined arguments match the regex.
//
// One-shot state is dropped at every alias statement that is not the one
// being looked up; export state is not.
package directive
