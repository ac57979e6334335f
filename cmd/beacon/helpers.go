package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func dash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func formatWhen(when time.Time) string {
	if when.IsZero() {
		return "-"
	}
	return when.Local().Format("2006-01-02 15:04")
}

func measurement(value int, unit string) string {
	if value <= 0 {
		return ""
	}
	return strconv.Itoa(value) + unit
}

func overrideLabel(override *int) string {
	if override == nil {
		return "none"
	}
	return strconv.Itoa(*override)
}

func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	if len(value) <= max {
		return value
	}
	return value[:max-3] + "..."
}

// prompt reads one trimmed line from in after printing the question.
func prompt(out io.Writer, in *bufio.Reader, question string) (string, error) {
	fmt.Fprint(out, question)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// confirm asks a yes/no question and returns the answer, defaulting to no.
func confirm(out io.Writer, in *bufio.Reader, question string) (bool, error) {
	answer, err := prompt(out, in, question+" [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
