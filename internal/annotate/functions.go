package annotate

import (
	"strings"

	"github.com/Feiyang1/tsickle/internal/checker"
	"github.com/Feiyang1/tsickle/internal/diag"
	"github.com/Feiyang1/tsickle/internal/jsdoc"
	"github.com/Feiyang1/tsickle/internal/syntax"
	"github.com/Feiyang1/tsickle/internal/types"
)

// docComment returns the documentation comment directly in front of outer.
func docComment(outer *syntax.Node) *syntax.Node {
	prev := outer.PrevSibling()
	if prev.Is(syntax.KindComment) {
		return prev
	}
	return nil
}

// docTags parses the hand-written `/** */` comment in front of outer.
func (a *annotator) docTags(outer *syntax.Node) ([]jsdoc.Tag, error) {
	c := docComment(outer)
	if c == nil {
		return nil, nil
	}
	tags, err := jsdoc.Parse(a.text(c))
	if err != nil {
		return nil, faultAt(c, diag.AnnHandwrittenType, "%s", err.Error())
	}
	return tags, nil
}

// callableTags merges hand-written tags with the resolved signature of fn.
// extra tag names are placed first.
func (a *annotator) callableTags(fn *syntax.Node, doc []jsdoc.Tag, extra ...string) ([]jsdoc.Tag, checker.Signature) {
	sig := a.chk.Signature(a.file, fn)

	var tags []jsdoc.Tag
	for _, name := range extra {
		tags = append(tags, jsdoc.Tag{TagName: name})
	}
	for _, t := range doc {
		if t.TagName != "param" && t.TagName != "return" {
			tags = append(tags, t)
		}
	}
	if sig.This != types.NoTypeID {
		tags = append(tags, jsdoc.Tag{TagName: "this", Type: a.r.Render(sig.This, fn, false)})
	}
	for _, p := range sig.Params {
		t := p.Type
		if p.Rest {
			t = a.r.RestElement(t)
		}
		tag := jsdoc.Tag{
			TagName:       "param",
			ParameterName: p.Name,
			Type:          a.r.Render(t, p.Node, p.Destructuring),
			Optional:      p.Optional,
			RestParam:     p.Rest,
			Destructuring: p.Destructuring,
		}
		if hand, ok := jsdoc.Find(doc, "param", p.Name); ok {
			tag.Text = hand.Text
		}
		tags = append(tags, tag)
	}
	if !sig.Constructor {
		tag := jsdoc.Tag{TagName: "return", Type: a.r.Render(sig.Result, fn, false)}
		if hand, ok := jsdoc.Find(doc, "return", ""); ok {
			tag.Text = hand.Text
		}
		tags = append(tags, tag)
	}
	return tags, sig
}

// functionBlock renders the annotation block of fn, led by a blank line.
func (a *annotator) functionBlock(fn, outer *syntax.Node) (string, error) {
	doc, err := a.docTags(outer)
	if err != nil {
		return "", err
	}
	tags, _ := a.callableTags(fn, doc)
	return "\n" + jsdoc.String(tags), nil
}

// function annotates a function or method with a body. outer is the node
// whose text is replaced: fn itself or its export statement.
func (a *annotator) function(fn, outer *syntax.Node) error {
	body := fn.ChildByField("body")
	if body == nil {
		// перегрузка: сигнатура без тела не аннотируется
		a.emitNode(outer)
		return nil
	}
	block, err := a.functionBlock(fn, outer)
	if err != nil {
		return err
	}
	a.w.WriteString(block)
	a.w.CopyRange(outer.Start(), body.Start())
	a.visit(body)
	a.w.CopyRange(body.End(), outer.End())
	return nil
}

// constructor annotates a constructor and visits its parameters so that
// comments in front of visibility modifiers are dropped. The body is copied
// verbatim.
func (a *annotator) constructor(fn *syntax.Node) error {
	body := fn.ChildByField("body")
	params := fn.ChildByField("parameters")
	if body == nil || params == nil {
		a.emitNode(fn)
		return nil
	}
	block, err := a.functionBlock(fn, fn)
	if err != nil {
		return err
	}
	a.w.WriteString(block)
	a.w.CopyRange(fn.Start(), params.Start())
	a.emitNode(params)
	a.w.CopyRange(params.End(), fn.End())
	return nil
}

// parameterNames lists the names used for the externs function skeleton.
func parameterNames(sig checker.Signature) string {
	names := make([]string, 0, len(sig.Params))
	for _, p := range sig.Params {
		names = append(names, p.Name)
	}
	return strings.Join(names, ", ")
}
