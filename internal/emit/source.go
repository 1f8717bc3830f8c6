package emit

import (
	"path"
	"strconv"
	"strings"

	"github.com/cmmoran/cs2cpp/internal/model"
)

// source renders the translation unit of one input file: static storage,
// reflection descriptors and out-of-line method definitions.
func (e *Emitter) source(f *model.File) (string, error) {
	var sb strings.Builder
	sb.WriteString(Marker)
	sb.WriteString(e.include())

	native := path.Join(e.opts.InDir, f.Native)
	if _, ok, err := e.fragment(native); err != nil {
		return "", err
	} else if ok {
		sb.WriteString("#include \"" + native + "\"\n")
	}

	for _, c := range f.Classes {
		namespaced(&sb, c.Namespace, func() {
			staticStorage(&sb, c)
		})
	}
	for _, c := range f.Classes {
		reflectionData(&sb, c)
		namespaced(&sb, c.Namespace, func() {
			if !c.Generic {
				methodDefs(&sb, c)
			}
		})
	}
	return sb.String(), nil
}

// staticStorage defines the static fields of c and its nested classes.
// Numeric fields start at zero. Template members stay declarations only.
func staticStorage(sb *strings.Builder, c *model.Class) {
	c.Walk(func(c *model.Class) {
		if inTemplate(c) {
			return
		}
		for _, f := range c.Fields {
			if !f.Type.Static || f.Type.Invalid {
				continue
			}
			for _, v := range f.Variables {
				sb.WriteString(f.Type.Declaration() + " " + c.FullName + "::" + v.Name)
				if f.Type.Numeric && !f.Type.IsArray() {
					sb.WriteString("= 0;\n")
				} else {
					sb.WriteString(";\n")
				}
			}
		}
	})
}

// reflectionData renders the Core::Class and Core::Type descriptors of c and
// its nested classes. Member descriptors skip synthesized "$" members.
func reflectionData(sb *strings.Builder, c *model.Class) {
	c.Walk(func(c *model.Class) {
		flat := c.FlatName()
		sb.WriteString("namespace Core {\n")

		var fields, methods []string
		for _, f := range c.Fields {
			for _, v := range f.Variables {
				id := "Field_" + flat + "_" + v.Name
				sb.WriteString("static Field " + id + "(\"" + v.Name + "\");\n")
				fields = append(fields, "&Core::"+id)
			}
		}
		idx := 0
		for _, m := range c.Methods {
			if strings.HasPrefix(m.Name, "$") {
				continue
			}
			id := "Method_" + flat + "_" + strings.Replace(m.Name, "~", "$", 1) + strconv.Itoa(idx)
			idx++
			sb.WriteString("static Method " + id + "(\"" + m.Name + "\");\n")
			methods = append(methods, "&Core::"+id)
		}
		var ifaces []string
		for _, i := range c.Ifaces {
			ifaces = append(ifaces, "&Core::Class_"+i.FlatSymbol())
		}

		sb.WriteString("Class Class_" + flat + "(")
		sb.WriteString(strconv.FormatBool(c.Interface) + ",")
		sb.WriteString("\"" + c.Name + "\",")
		if len(c.Bases) == 0 {
			sb.WriteString("nullptr,")
		} else {
			sb.WriteString("&Class_" + c.Bases[0].FlatSymbol() + ",")
		}
		sb.WriteString("{" + strings.Join(ifaces, ",") + "},")
		sb.WriteString("{" + strings.Join(fields, ",") + "},")
		sb.WriteString("{" + strings.Join(methods, ",") + "}")
		if c.Generic || c.Abstract || c.DefaultCtor() == nil {
			sb.WriteString(",[] () {return nullptr;}")
		} else {
			sb.WriteString(",[] () {return new " + c.Namespace + "::" + c.FullName + "();}")
		}
		sb.WriteString(");\n")
		sb.WriteString("System::Type Type_" + flat + "(&Core::Class_" + flat + ");\n")
		sb.WriteString("};\n")
	})
}

// methodDefs renders the out-of-line definitions of c and its nested
// classes. Abstract methods still get a body that dispatches virtually.
func methodDefs(sb *strings.Builder, c *model.Class) {
	for _, m := range c.Methods {
		if m.Delegate || m.Generic || m.Type.Extern || m.Type.Invalid {
			continue
		}
		body := m.Body.String()
		if m.Type.Abstract {
			if m.Type.Spelling == "void" {
				body = "{" + m.Name + m.ArgNames() + ";}\n"
			} else {
				body = "{return " + m.Name + m.ArgNames() + ";}\n"
			}
		}
		sb.WriteString(m.Type.Declaration() + " " + c.FullName + "::" + m.Name + m.ArgList(false))
		if m.Ctor && m.BaseCtor != "" {
			sb.WriteString(":" + m.BaseCtor)
		}
		switch {
		case m == c.Init():
			sb.WriteString(initBody(c))
		case body == "":
			sb.WriteString("{}\n")
		default:
			sb.WriteString(body)
		}
	}
	for _, in := range c.Inners {
		if !inTemplate(in) {
			methodDefs(sb, in)
		}
	}
	if c.Interface {
		return
	}
	flat := c.FlatName()
	if !isRoot(c) {
		sb.WriteString("System::Type* " + c.FullName + "::GetType() {")
		sb.WriteString("  return &Core::Type_" + flat + ";\n}\n")
	}
	sb.WriteString("System::Type* " + c.FullName + "::$GetType() {")
	sb.WriteString("  return &Core::Type_" + flat + ";\n}\n")
}

// staticInit renders ctor.cpp. Static initializers run in file order;
// object and array statics are registered as GC roots first.
func (e *Emitter) staticInit(prog *model.Program) string {
	var sb strings.Builder
	sb.WriteString(Marker)
	sb.WriteString(e.include())
	sb.WriteString("namespace Core {\n")
	sb.WriteString("void Library_" + e.opts.Target + "_ctor() {\n")
	for _, top := range prog.Classes() {
		top.Walk(func(c *model.Class) {
			if inTemplate(c) {
				return
			}
			for _, f := range c.Fields {
				if !f.Type.Static || f.Type.Invalid {
					continue
				}
				for _, v := range f.Variables {
					if f.Type.Object || f.Type.IsArray() {
						sb.WriteString("Core::Object::GC_add_static_ref((Core::Object**)&" + c.NSFullName + "::" + v.Name + ");\n")
					}
					sb.WriteString(v.Init.String())
				}
			}
		})
	}
	sb.WriteString("}};\n")
	return sb.String()
}
