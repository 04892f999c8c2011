package core

import (
	"regexp"
	"strings"
)

func AssembleDocument(doctype, pre, body, post string) string {
	var sb strings.Builder
	sb.Grow(len(doctype) + len(pre) + len(body) + len(post))
	sb.WriteString(doctype)
	sb.WriteString(pre)
	sb.WriteString(body)
	sb.WriteString(post)
	return sb.String()
}

// ViewDirPattern matches paths that start with dir. dir is quoted, so
// metacharacters in the path match literally. An empty dir matches every
// path.
func ViewDirPattern(dir string) *regexp.Regexp {
	return regexp.MustCompile("^" + regexp.QuoteMeta(dir))
}

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

func IsDevelopment(env string) bool {
	return env == EnvDevelopment
}
