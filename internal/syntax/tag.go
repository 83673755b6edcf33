// Package syntax holds the per-offset classification that parsers attach to
// source text. The lint core only ever asks which tags an offset carries and
// whether any of them is in an exclusion set.
package syntax

import "strings"

// Tag is a lexical category assigned to a span of source text.
type Tag uint8

const (
	TagCode Tag = iota // plain code with no more specific category
	TagKeyword
	TagIdentifier
	TagTypeIdentifier
	TagNumber
	TagString
	TagComment
	TagDocComment
	TagDocCommentField
	TagCommentMark // "// MARK:" style section markers
	TagCommentURL
	TagAttribute
	TagBuildConfig // #if / #else / #endif and friends

	tagCount
)

var tagNames = [...]string{
	TagCode:            "code",
	TagKeyword:         "keyword",
	TagIdentifier:      "identifier",
	TagTypeIdentifier:  "typeidentifier",
	TagNumber:          "number",
	TagString:          "string",
	TagComment:         "comment",
	TagDocComment:      "doccomment",
	TagDocCommentField: "doccomment.field",
	TagCommentMark:     "comment.mark",
	TagCommentURL:      "comment.url",
	TagAttribute:       "attribute",
	TagBuildConfig:     "buildconfig",
}

func (t Tag) String() string {
	if t < tagCount {
		return tagNames[t]
	}
	return "unknown"
}

// ParseTag maps a tag name back to its Tag.
func ParseTag(name string) (Tag, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range tagNames {
		if n == name {
			return Tag(i), true
		}
	}
	return 0, false
}

// TagSet is a set of tags stored as a bit mask.
type TagSet uint32

// NewTagSet builds a set from the given tags.
func NewTagSet(tags ...Tag) TagSet {
	var s TagSet
	for _, t := range tags {
		s = s.With(t)
	}
	return s
}

// With returns the set plus t.
func (s TagSet) With(t Tag) TagSet {
	if t >= tagCount {
		return s
	}
	return s | 1<<t
}

// Has reports whether t is in the set.
func (s TagSet) Has(t Tag) bool {
	return t < tagCount && s&(1<<t) != 0
}

// Intersects reports whether the two sets share at least one tag.
func (s TagSet) Intersects(other TagSet) bool {
	return s&other != 0
}

// Empty reports whether the set has no tags.
func (s TagSet) Empty() bool {
	return s == 0
}

// Tags lists the members in ascending order.
func (s TagSet) Tags() []Tag {
	var out []Tag
	for t := Tag(0); t < tagCount; t++ {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s TagSet) String() string {
	tags := s.Tags()
	names := make([]string, len(tags))
	for i, t := range tags {
		names[i] = t.String()
	}
	return "{" + strings.Join(names, ",") + "}"
}

// CommentsAndStrings is the exclusion set used by rules that must ignore
// text inside comments and string literals.
var CommentsAndStrings = NewTagSet(
	TagComment,
	TagDocComment,
	TagDocCommentField,
	TagCommentMark,
	TagCommentURL,
	TagString,
)
