package protocol

import "regexp"

// triggerPatterns are the textual phrasings of "invoke tool X with arguments"
// that models have been observed to emit. Order is the priority order: the
// first pattern that matches anywhere in the text wins, even if a later
// pattern also matches. The misspelled TOL variant and the Chinese forms are
// deliberate, they appear in real output and must be tolerated.
var triggerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`TOOL:\s*(\w+)\s*ARGS:\s*`),
	regexp.MustCompile(`TOL:\s*(\w+)\s*ARGS:\s*`),
	regexp.MustCompile(`使用工具:\s*(\w+)\s*参数:\s*`),
	regexp.MustCompile(`USE TOOL:\s*(\w+)\s*WITH ARGS:\s*`),
	regexp.MustCompile(`工具名称:\s*(\w+)\s*工具参数:\s*`),
	regexp.MustCompile(`Tool:\s*(\w+)\s*Args:\s*`),
	regexp.MustCompile(`Tool:\s*(\w+)\s*Arguments:\s*`),
}

// Recognize scans text for a tool-call trigger. On a match it returns the
// captured tool name and the remainder of the text after the trigger, which
// holds the arguments. ok is false when no pattern matches, meaning the text
// is a plain response.
func Recognize(text string) (name, remainder string, ok bool) {
	for _, pat := range triggerPatterns {
		loc := pat.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		name = text[loc[2]:loc[3]]
		remainder = text[loc[1]:]
		return name, remainder, true
	}
	return "", "", false
}
