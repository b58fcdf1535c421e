package common

import (
	"fmt"
	"strings"
)

// FileHeader returns the banner placed at the top of every generated file.
// comment is the line comment token of the target language. The banner
// carries no timestamp so repeated runs produce identical output.
func FileHeader(comment, source string) string {
	version, err := GetVersion()
	if err != nil {
		version = "unknown"
	}
	lines := []string{
		fmt.Sprintf("Code generated by protocpp %s. DO NOT EDIT.", version),
	}
	if source != "" {
		lines = append(lines, "source: "+source)
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(comment)
		b.WriteByte(' ')
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}
