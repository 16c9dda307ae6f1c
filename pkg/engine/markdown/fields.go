package markdown

import (
	texttemplate "text/template"
	"text/template/parse"

	"github.com/dmitrymomot/mailmerge/pkg/engine"
)

// listFields statically collects the record fields referenced by a parsed
// template: every {{ .field }} access, including those inside if/range/with
// blocks. Pure tree walk, no execution.
func listFields(t *texttemplate.Template) engine.Fields {
	fields := make(engine.Fields)
	for _, tmpl := range t.Templates() {
		if tmpl.Tree == nil || tmpl.Tree.Root == nil {
			continue
		}
		walkNode(tmpl.Tree.Root, fields)
	}
	return fields
}

func walkNode(node parse.Node, fields engine.Fields) {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return
		}
		for _, child := range n.Nodes {
			walkNode(child, fields)
		}
	case *parse.ActionNode:
		walkPipe(n.Pipe, fields)
	case *parse.IfNode:
		walkBranch(&n.BranchNode, fields)
	case *parse.RangeNode:
		walkBranch(&n.BranchNode, fields)
	case *parse.WithNode:
		walkBranch(&n.BranchNode, fields)
	case *parse.TemplateNode:
		walkPipe(n.Pipe, fields)
	}
}

func walkBranch(n *parse.BranchNode, fields engine.Fields) {
	walkPipe(n.Pipe, fields)
	if n.List != nil {
		walkNode(n.List, fields)
	}
	if n.ElseList != nil {
		walkNode(n.ElseList, fields)
	}
}

func walkPipe(pipe *parse.PipeNode, fields engine.Fields) {
	if pipe == nil {
		return
	}
	for _, cmd := range pipe.Cmds {
		for _, arg := range cmd.Args {
			switch a := arg.(type) {
			case *parse.FieldNode:
				if len(a.Ident) > 0 {
					fields[a.Ident[0]] = struct{}{}
				}
			case *parse.ChainNode:
				if len(a.Field) > 0 {
					walkNode(a.Node, fields)
				}
			case *parse.PipeNode:
				walkPipe(a, fields)
			}
		}
	}
}
