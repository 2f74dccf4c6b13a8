package sanitize

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// 允许保留的排版元素，其余 HTML 元素去掉标签只留子节点
var allowedElements = map[atom.Atom]bool{
	atom.A: true, atom.Abbr: true, atom.Address: true, atom.Article: true, atom.Aside: true,
	atom.B: true, atom.Bdi: true, atom.Bdo: true, atom.Blockquote: true, atom.Br: true,
	atom.Caption: true, atom.Cite: true, atom.Code: true, atom.Col: true, atom.Colgroup: true,
	atom.Dd: true, atom.Del: true, atom.Dfn: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Em: true, atom.Figcaption: true, atom.Figure: true, atom.Footer: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.I: true, atom.Img: true, atom.Ins: true, atom.Kbd: true,
	atom.Li: true, atom.Main: true, atom.Mark: true, atom.Ol: true, atom.P: true, atom.Pre: true,
	atom.Q: true, atom.S: true, atom.Samp: true, atom.Section: true, atom.Small: true,
	atom.Span: true, atom.Strong: true, atom.Sub: true, atom.Sup: true,
	atom.Table: true, atom.Tbody: true, atom.Td: true, atom.Tfoot: true, atom.Th: true,
	atom.Thead: true, atom.Time: true, atom.Tr: true, atom.U: true, atom.Ul: true,
	atom.Var: true, atom.Wbr: true,
}

// 整个元素（含子节点）直接丢弃；SVG / MathML 等外部命名空间的元素同样丢弃
var droppedElements = map[atom.Atom]bool{
	atom.Script: true, atom.Style: true, atom.Iframe: true, atom.Object: true, atom.Embed: true,
	atom.Frame: true, atom.Frameset: true, atom.Applet: true, atom.Param: true,
	atom.Base: true, atom.Meta: true, atom.Link: true, atom.Head: true, atom.Title: true,
	atom.Noscript: true, atom.Template: true, atom.Xmp: true, atom.Noembed: true,
	atom.Noframes: true, atom.Plaintext: true, atom.Svg: true, atom.Math: true,
	atom.Button: true, atom.Input: true, atom.Select: true, atom.Option: true,
	atom.Optgroup: true, atom.Datalist: true, atom.Textarea: true, atom.Keygen: true,
	atom.Audio: true, atom.Video: true, atom.Source: true, atom.Track: true,
	atom.Canvas: true, atom.Marquee: true,
}

// 所有保留元素都可带的属性
var globalAttrs = map[string]bool{
	"class": true,
	"id":    true,
	"title": true,
	"lang":  true,
	"dir":   true,
	"style": true,
	"align": true,
}

var elementAttrs = map[atom.Atom]map[string]bool{
	atom.A:          {"href": true, "name": true},
	atom.Img:        {"src": true, "alt": true, "width": true, "height": true},
	atom.Ol:         {"start": true, "type": true},
	atom.Ul:         {"type": true},
	atom.Li:         {"value": true},
	atom.Table:      {"border": true, "cellpadding": true, "cellspacing": true, "width": true, "summary": true},
	atom.Col:        {"span": true, "width": true},
	atom.Colgroup:   {"span": true, "width": true},
	atom.Td:         {"colspan": true, "rowspan": true, "valign": true, "width": true},
	atom.Th:         {"colspan": true, "rowspan": true, "valign": true, "width": true, "scope": true},
	atom.Blockquote: {"cite": true},
	atom.Q:          {"cite": true},
	atom.Del:        {"cite": true, "datetime": true},
	atom.Ins:        {"cite": true, "datetime": true},
	atom.Time:       {"datetime": true},
}

// 值为 URI 的属性
var uriAttrs = map[string]bool{
	"href": true,
	"src":  true,
	"cite": true,
}

// 允许内联的图片类型，svg 可执行脚本不在其中
var inlineImageTypes = []string{
	"data:image/png",
	"data:image/jpeg",
	"data:image/jpg",
	"data:image/gif",
	"data:image/webp",
	"data:image/bmp",
}

var bodyContext = &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}

type action int

const (
	keep action = iota
	unwrap
	drop
)

// HTML 清洗生成服务返回的 HTML 片段，只保留白名单内的排版标签与属性
func HTML(src string) string {
	nodes, err := html.ParseFragment(strings.NewReader(src), bodyContext)
	if err != nil {
		return html.EscapeString(src)
	}

	root := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	for _, n := range nodes {
		root.AppendChild(n)
	}
	cleanChildren(root)

	var buf bytes.Buffer
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return html.EscapeString(src)
		}
	}
	return buf.String()
}

func classify(n *html.Node) action {
	switch n.Type {
	case html.TextNode:
		return keep
	case html.ElementNode:
		switch {
		case n.Namespace != "", droppedElements[n.DataAtom]:
			return drop
		case allowedElements[n.DataAtom]:
			return keep
		}
		return unwrap
	}
	return drop
}

func cleanChildren(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch classify(c) {
		case drop:
			n.RemoveChild(c)
		case unwrap:
			cleanChildren(c)
			for gc := c.FirstChild; gc != nil; gc = c.FirstChild {
				c.RemoveChild(gc)
				n.InsertBefore(gc, c)
			}
			n.RemoveChild(c)
		case keep:
			if c.Type == html.ElementNode {
				c.Attr = cleanAttrs(c.DataAtom, c.Attr)
			}
			cleanChildren(c)
		}
		c = next
	}
}

func cleanAttrs(el atom.Atom, attrs []html.Attribute) []html.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		if a.Namespace != "" {
			continue
		}
		key := strings.ToLower(a.Key)
		switch {
		case !globalAttrs[key] && !elementAttrs[el][key]:
			continue
		case uriAttrs[key] && !SafeURI(a.Val):
			continue
		case key == "style" && unsafeStyle(a.Val):
			continue
		}
		a.Key = key
		kept = append(kept, a)
	}
	return kept
}

// SafeURI 拒绝 javascript:、vbscript: 以及非图片的 data: URI
func SafeURI(raw string) bool {
	u := normalizeURI(raw)
	switch {
	case strings.HasPrefix(u, "javascript:"), strings.HasPrefix(u, "vbscript:"):
		return false
	case strings.HasPrefix(u, "data:"):
		for _, prefix := range inlineImageTypes {
			if strings.HasPrefix(u, prefix) {
				return true
			}
		}
		return false
	}
	return true
}

func unsafeStyle(val string) bool {
	v := normalizeURI(val)
	return strings.Contains(v, "expression(") ||
		strings.Contains(v, "javascript:") ||
		strings.Contains(v, "vbscript:") ||
		strings.Contains(v, "url(")
}

// 浏览器解析 scheme 时会忽略空白与控制字符
func normalizeURI(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r <= ' ' || r == 0x7f {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}
