package cache

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/arthur-debert/aka/pkg/types"
)

// row is the persisted shape of types.Settings.
type row struct {
	Key          string
	Name         string
	Command      string
	Line         int
	ResolvedPath string
	ResolvedArgs sql.NullString
	EnvBlob      sql.NullString
	ExecMode     int
	ExclArgs     sql.NullString

	Prefix               sql.NullString
	PrefixCondition      sql.NullString
	CharsetConv          sql.NullString
	CharsetConvCondition sql.NullString

	UpdatedAt int64
}

func toRow(s *types.Settings) row {
	r := row{
		Key:          s.Key,
		Name:         s.Name,
		Command:      s.Command,
		Line:         s.Line,
		ResolvedPath: s.Path,
		ResolvedArgs: nullable(s.Args),
		EnvBlob:      nullable(s.Env.Blob()),
		ExecMode:     s.ExecMode,
		ExclArgs:     nullable(joinInts(s.ExclArgs)),
		UpdatedAt:    s.UpdatedAt.Unix(),
	}
	if s.Prefix != nil {
		r.Prefix = sql.NullString{String: s.Prefix.Value, Valid: true}
		r.PrefixCondition = nullable(s.Prefix.Pattern)
	}
	if s.Charset != nil {
		r.CharsetConv = sql.NullString{String: s.Charset.Value, Valid: true}
		r.CharsetConvCondition = nullable(s.Charset.Pattern)
	}
	return r
}

func (r row) settings() *types.Settings {
	s := types.NewSettings()
	s.Key = r.Key
	s.Name = r.Name
	s.Command = r.Command
	s.Line = r.Line
	s.Path = r.ResolvedPath
	s.Args = r.ResolvedArgs.String
	s.Env = types.ParseEnvironmentBlob(r.EnvBlob.String)
	s.ExecMode = r.ExecMode
	s.ExclArgs = splitInts(r.ExclArgs.String)
	if r.Prefix.Valid {
		s.Prefix = &types.Conditional{Value: r.Prefix.String, Pattern: r.PrefixCondition.String}
	}
	if r.CharsetConv.Valid {
		s.Charset = &types.Conditional{Value: r.CharsetConv.String, Pattern: r.CharsetConvCondition.String}
	}
	s.UpdatedAt = time.Unix(r.UpdatedAt, 0)
	return s
}

// scanTarget lists the row fields in column order.
func (r *row) scanTarget() []any {
	return []any{
		&r.Key, &r.Name, &r.Command, &r.Line,
		&r.ResolvedPath, &r.ResolvedArgs, &r.EnvBlob,
		&r.ExecMode, &r.ExclArgs,
		&r.Prefix, &r.PrefixCondition, &r.CharsetConv, &r.CharsetConvCondition,
		&r.UpdatedAt,
	}
}

func (r row) values() []any {
	return []any{
		r.Key, r.Name, r.Command, r.Line,
		r.ResolvedPath, r.ResolvedArgs, r.EnvBlob,
		r.ExecMode, r.ExclArgs,
		r.Prefix, r.PrefixCondition, r.CharsetConv, r.CharsetConvCondition,
		r.UpdatedAt,
	}
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func splitInts(s string) []int {
	if s == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		if n, err := strconv.Atoi(part); err == nil {
			out = append(out, n)
		}
	}
	return out
}
