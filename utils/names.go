package utils

import (
	"strings"
)

// SplitNames splits a comma separated list, dropping blanks.
func SplitNames(csv string) []string {
	array := strings.Split(csv, ",")
	adjusted := make([]string, 0)
	for _, each := range array {
		trimmed := strings.TrimSpace(each)
		if trimmed != "" {
			adjusted = append(adjusted, trimmed)
		}
	}
	return adjusted
}

// Contains reports whether name is one of names; an empty list matches everything.
func Contains(names []string, name string) bool {
	if len(names) == 0 {
		return true
	}
	for _, each := range names {
		if each == name {
			return true
		}
	}
	return false
}
