package reference

import (
	"strings"

	"lexassist/types"
)

// Format 把引用渲染成一行展示文本，例如
// "Brown v. Board of Education, 347 U.S. 483 (Supreme Court, 1954) <https://...>"
// 缺省字段直接省略，全部为空时返回 ""
func Format(ref types.Reference) string {
	head := joinNonEmpty(", ", ref.CaseName, ref.Citation)
	paren := joinNonEmpty(", ", ref.Court, ref.Date)

	switch {
	case head != "" && paren != "":
		head += " (" + paren + ")"
	case paren != "":
		head = paren
	}

	url := strings.TrimSpace(ref.URL)
	if url == "" {
		return head
	}
	if head == "" {
		return url
	}
	return head + " <" + url + ">"
}

// FormatAll 渲染列表，跳过空引用
func FormatAll(refs []types.Reference) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if s := Format(ref); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
