// Package jsdoc reads hand-written documentation comments into tags and
// prints synthesized annotation blocks.
package jsdoc

import (
	"regexp"
	"strings"
)

// Tag is one documentation directive. An empty TagName is free text.
type Tag struct {
	TagName       string
	ParameterName string
	Type          string
	Text          string
	Optional      bool
	RestParam     bool
	Destructuring bool
}

// Fault rejects a comment that carries a hand-written type.
type Fault struct {
	Message string
}

func (f *Fault) Error() string { return f.Message }

var (
	blockRe     = regexp.MustCompile(`^/\*\*([\s\S]*?)\*/$`)
	leadingStar = regexp.MustCompile(`(?m)^[ \t]*\*? ?`)
	tagLineRe   = regexp.MustCompile(`^@(\S+) *(.*)`)
	paramNameRe = regexp.MustCompile(`^(\S+) ?(.*)`)
)

type state uint8

const (
	stateStart state = iota // nothing collected yet
	stateText               // inside leading free text
	stateTag                // inside a tag; plain lines continue it
)

// Parse splits a `/** ... */` comment into tags. It returns nil tags and a
// nil error for comments of any other form.
func Parse(comment string) ([]Tag, error) {
	m := blockRe.FindStringSubmatch(comment)
	if m == nil {
		return nil, nil
	}
	body := leadingStar.ReplaceAllString(strings.TrimSpace(m[1]), "")

	var tags []Tag
	st := stateStart
	for _, line := range strings.Split(body, "\n") {
		if tm := tagLineRe.FindStringSubmatch(line); tm != nil {
			tag, err := parseTag(tm[1], tm[2])
			if err != nil {
				return nil, err
			}
			tags = append(tags, tag)
			st = stateTag
			continue
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch st {
		case stateStart:
			tags = append(tags, Tag{Text: line})
			st = stateText
		case stateText, stateTag:
			last := &tags[len(tags)-1]
			if last.Text == "" {
				last.Text = line
			} else {
				last.Text += " " + line
			}
		}
	}
	return tags, nil
}

func parseTag(name, text string) (Tag, error) {
	if name == "returns" {
		name = "return"
	}
	text = strings.TrimLeft(text, " \t")
	switch {
	case name == "type":
		return Tag{}, &Fault{Message: "@type annotations are not allowed"}
	case (name == "param" || name == "return") && strings.HasPrefix(text, "{"):
		return Tag{}, &Fault{Message: "type annotations (using {...}) are not allowed"}
	}
	tag := Tag{TagName: name}
	if name == "param" {
		if pm := paramNameRe.FindStringSubmatch(text); pm != nil {
			tag.ParameterName, text = pm[1], pm[2]
		}
	}
	tag.Text = strings.TrimRight(text, " \t")
	return tag, nil
}

// String prints tags as a block comment ending with a newline.
func String(tags []Tag) string {
	var sb strings.Builder
	sb.WriteString("/**\n")
	for _, tag := range tags {
		sb.WriteString(" *")
		if tag.TagName != "" {
			sb.WriteString(" @")
			sb.WriteString(tag.TagName)
		}
		if tag.Type != "" {
			sb.WriteString(" {")
			if tag.RestParam {
				sb.WriteString("...")
			}
			sb.WriteString(tag.Type)
			if tag.Optional {
				sb.WriteString("=")
			}
			sb.WriteString("}")
		}
		if tag.ParameterName != "" {
			sb.WriteString(" ")
			sb.WriteString(tag.ParameterName)
		}
		if tag.Text != "" {
			sb.WriteString(" ")
			sb.WriteString(tag.Text)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(" */\n")
	return sb.String()
}

// Find returns the first tag named name whose parameter name matches
// param ("" matches any).
func Find(tags []Tag, name, param string) (Tag, bool) {
	for _, t := range tags {
		if t.TagName == name && (param == "" || t.ParameterName == param) {
			return t, true
		}
	}
	return Tag{}, false
}
