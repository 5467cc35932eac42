package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"
)

// outputBase returns the output path without extension.
func outputBase(input, output string) string {
	if output == "" {
		output = input
	}
	return strings.TrimSuffix(output, filepath.Ext(output))
}

func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, name)
}

// animationPath returns the output path of an animation clip. Paths already
// in used (compared case-insensitively) get the clip index appended.
func animationPath(base, name string, index int, used map[string]bool) string {
	name = sanitizeName(name)
	if strings.Trim(name, "_.") == "" {
		name = fmt.Sprint(index)
	}
	path := base + "_" + name + ".bbanim"
	for n := 0; used[strings.ToLower(path)]; n++ {
		if n == 0 {
			path = fmt.Sprintf("%s_%s_%d.bbanim", base, name, index)
		} else {
			path = fmt.Sprintf("%s_%s_%d_%d.bbanim", base, name, index, n)
		}
	}
	used[strings.ToLower(path)] = true
	return path
}
