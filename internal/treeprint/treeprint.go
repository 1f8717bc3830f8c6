// Package treeprint renders loaded dumps as trees for inspecting what the
// front end exported.
package treeprint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pterm/pterm"

	"github.com/cmmoran/cs2cpp/internal/diag"
	"github.com/cmmoran/cs2cpp/internal/frontend"
	"github.com/cmmoran/cs2cpp/pkg/options"
)

// Tree builds the tree of one dump. mode is one of the options.Print modes;
// tostring adds the node source text, tokens the token list, all both.
func Tree(f *frontend.File, mode string) pterm.TreeNode {
	root := pterm.TreeNode{Text: pterm.Bold.Sprint(f.Unit.Path)}
	if f.Dump.Root != nil {
		root.Children = append(root.Children, node("", f.Dump.Root, mode))
	}
	return root
}

func node(label string, n *frontend.Node, mode string) pterm.TreeNode {
	var sb strings.Builder
	if label != "" {
		sb.WriteString(label + ": ")
	}
	sb.WriteString(pterm.Cyan(n.Kind))
	if n.Name != "" {
		sb.WriteString(" " + n.Name)
	}
	if n.Op != "" {
		sb.WriteString(" " + n.Op)
	}
	if n.Line != 0 {
		sb.WriteString(pterm.Gray(fmt.Sprintf(" @%d", n.Line)))
	}
	for _, fact := range facts(n, mode) {
		sb.WriteString(" " + pterm.Gray("["+fact+"]"))
	}

	out := pterm.TreeNode{Text: sb.String()}
	for _, name := range sortedKeys(n.Slots) {
		if child := n.Slots[name]; child != nil {
			out.Children = append(out.Children, node(name, child, mode))
		}
	}
	for _, name := range sortedKeys(n.Lists) {
		for i, child := range n.Lists[name] {
			if child != nil {
				out.Children = append(out.Children, node(fmt.Sprintf("%s[%d]", name, i), child, mode))
			}
		}
	}
	return out
}

func facts(n *frontend.Node, mode string) []string {
	var out []string
	if n.Decl != nil {
		out = append(out, "decl "+symbol(n.Decl))
	}
	if n.Symbol != nil {
		out = append(out, "symbol "+symbol(n.Symbol))
	}
	if n.Type != nil {
		t := "type " + n.Type.Display
		if n.Type.Kind != "" {
			t += " (" + strings.ToLower(n.Type.Kind) + ")"
		}
		out = append(out, t)
	}
	if n.Const != nil {
		out = append(out, "const "+*n.Const)
	}
	for _, k := range sortedKeys(n.Attrs) {
		out = append(out, k+"="+n.Attrs[k])
	}
	if len(n.Args) > 0 {
		out = append(out, "args "+strings.Join(n.Args, ", "))
	}
	if (mode == options.PrintToString || mode == options.PrintAll) && n.Text != "" {
		out = append(out, "text "+n.Text)
	}
	if (mode == options.PrintTokens || mode == options.PrintAll) && len(n.Tokens) > 0 {
		out = append(out, "tokens "+strings.Join(n.Tokens, " "))
	}
	return out
}

func symbol(s *frontend.Symbol) string {
	name := s.Display
	if name == "" {
		name = s.Name
	}
	if s.Kind != "" {
		name += " (" + strings.ToLower(s.Kind) + ")"
	}
	return name
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Diagnostics lists the front-end messages of a dump, without the
// suppressed ones.
func Diagnostics(f *frontend.File) []string {
	var out []string
	for _, d := range f.Dump.Diagnostics {
		if diag.SuppressedFrontEnd[d.ID] {
			continue
		}
		msg := fmt.Sprintf("%s:%d: %s %s: %s", f.Unit.Path, d.Line, strings.ToLower(d.Severity), d.ID, d.Message)
		if strings.EqualFold(d.Severity, string(diag.SeverityError)) {
			msg = pterm.Red(msg)
		} else {
			msg = pterm.Yellow(msg)
		}
		out = append(out, msg)
	}
	return out
}

// Render renders the tree of every file followed by its diagnostics.
func Render(files []*frontend.File, mode string) (string, error) {
	var sb strings.Builder
	for _, f := range files {
		s, err := pterm.DefaultTree.WithRoot(Tree(f, mode)).Srender()
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
		for _, d := range Diagnostics(f) {
			sb.WriteString(d + "\n")
		}
	}
	return sb.String(), nil
}
