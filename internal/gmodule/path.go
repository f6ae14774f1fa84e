package gmodule

import (
	"path"
	"regexp"
	"strings"
)

var (
	leadingInvalid = regexp.MustCompile(`^[^a-zA-Z_$]`)
	invalidChars   = regexp.MustCompile(`[^a-zA-Z0-9._$]`)
)

// PathToModuleName turns an import path into a goog.module name. Relative
// paths are resolved against the directory of context; separators become
// dots and characters goog.module rejects become underscores.
func PathToModuleName(context, fileName string) string {
	fileName = strings.TrimSuffix(fileName, ".js")
	if strings.HasPrefix(fileName, ".") {
		fileName = path.Join(path.Dir(strings.ReplaceAll(context, `\`, "/")), fileName)
	}
	name := strings.NewReplacer("/", ".", `\`, ".").Replace(fileName)
	name = leadingInvalid.ReplaceAllString(name, "_")
	return invalidChars.ReplaceAllString(name, "_")
}
