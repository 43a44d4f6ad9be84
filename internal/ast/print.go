package ast

import (
	"encoding/json"
	"fmt"
)

// Print produces a deterministic JSON representation of an AST node, used
// for golden snapshot tests (internal/ast/print_test.go).
//
// Design decisions, carried over from the pretty-printer this was grounded
// on: omit instance-specific metadata (byte offsets, detailed positions),
// and include a "type" field on every node so golden diffs read clearly.
func Print(node Node) string {
	data, err := json.MarshalIndent(simplify(node), "", "  ")
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

// Compact is Print without indentation.
func Compact(node Node) string {
	data, err := json.Marshal(simplify(node))
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(data)
}

func simplify(node interface{}) interface{} {
	if node == nil || isNilNode(node) {
		return nil
	}

	switch n := node.(type) {
	case *File:
		m := map[string]interface{}{"type": "File", "path": "test://unit"}
		if len(n.Imports) > 0 {
			m["imports"] = simplifySlice(n.Imports)
		}
		if len(n.Decls) > 0 {
			m["decls"] = simplifyDeclSlice(n.Decls)
		}
		return m

	case *ImportDecl:
		m := map[string]interface{}{"type": "ImportDecl", "path": n.Path}
		if len(n.Symbols) > 0 {
			m["symbols"] = n.Symbols
		}
		return m

	case *ExportDecl:
		return map[string]interface{}{"type": "ExportDecl", "decl": simplify(n.Decl)}

	case *FuncDecl:
		m := map[string]interface{}{"type": "FuncDecl", "name": n.Name}
		if len(n.Params) > 0 {
			m["params"] = simplifySlice(n.Params)
		}
		if n.ReturnType != nil {
			m["returnType"] = simplify(n.ReturnType)
		}
		if n.Body != nil {
			m["body"] = simplify(n.Body)
		}
		return m

	case *ClassDecl:
		m := map[string]interface{}{"type": "ClassDecl", "name": n.Name}
		if len(n.Fields) > 0 {
			m["fields"] = simplifySlice(n.Fields)
		}
		if len(n.Methods) > 0 {
			m["methods"] = simplifySlice(n.Methods)
		}
		return m

	case *InterfaceDecl:
		return map[string]interface{}{"type": "InterfaceDecl", "name": n.Name}

	case *TypeAliasDecl:
		return map[string]interface{}{"type": "TypeAliasDecl", "name": n.Name, "target": simplify(n.Type)}

	case *EnumDecl:
		m := map[string]interface{}{"type": "EnumDecl", "name": n.Name}
		if len(n.Members) > 0 {
			m["members"] = simplifySlice(n.Members)
		}
		return m

	case *EnumMember:
		m := map[string]interface{}{"type": "EnumMember", "name": n.Name}
		if n.Init != nil {
			m["init"] = simplify(n.Init)
		}
		return m

	case *Block:
		m := map[string]interface{}{"type": "Block"}
		if len(n.Stmts) > 0 {
			m["stmts"] = simplifyStmtSlice(n.Stmts)
		}
		return m

	case *ExprStmt:
		return map[string]interface{}{"type": "ExprStmt", "x": simplify(n.X)}

	case *VarDecl:
		m := map[string]interface{}{"type": "VarDecl", "kind": n.Kind}
		if n.Name != "" {
			m["name"] = n.Name
		}
		if n.Pattern != nil {
			m["pattern"] = simplify(n.Pattern)
		}
		if n.Value != nil {
			m["value"] = simplify(n.Value)
		}
		return m

	case *IfStmt:
		m := map[string]interface{}{"type": "IfStmt", "cond": simplify(n.Cond), "then": simplify(n.Then)}
		if n.Else != nil {
			m["else"] = simplify(n.Else)
		}
		return m

	case *WhileStmt:
		return map[string]interface{}{"type": "WhileStmt", "cond": simplify(n.Cond), "body": simplify(n.Body)}

	case *ForOfStmt:
		return map[string]interface{}{
			"type": "ForOfStmt", "varName": n.VarName,
			"iterable": simplify(n.Iterable), "body": simplify(n.Body),
		}

	case *SwitchStmt:
		m := map[string]interface{}{"type": "SwitchStmt", "disc": simplify(n.Disc)}
		if len(n.Cases) > 0 {
			m["cases"] = simplifySlice(n.Cases)
		}
		return m

	case *SwitchCase:
		m := map[string]interface{}{"type": "SwitchCase", "isDefault": n.IsDefault}
		if n.Test != nil {
			m["test"] = simplify(n.Test)
		}
		return m

	case *ReturnStmt:
		m := map[string]interface{}{"type": "ReturnStmt"}
		if n.Value != nil {
			m["value"] = simplify(n.Value)
		}
		return m

	case *ThrowStmt:
		return map[string]interface{}{"type": "ThrowStmt", "value": simplify(n.Value)}

	case *TryStmt:
		m := map[string]interface{}{"type": "TryStmt", "body": simplify(n.Body)}
		if n.CatchBody != nil {
			m["catchParam"] = n.CatchParam
			m["catchBody"] = simplify(n.CatchBody)
		}
		if n.FinallyBody != nil {
			m["finallyBody"] = simplify(n.FinallyBody)
		}
		return m

	case *BreakStmt:
		return map[string]interface{}{"type": "BreakStmt"}
	case *ContinueStmt:
		return map[string]interface{}{"type": "ContinueStmt"}

	case *Literal:
		return map[string]interface{}{"type": "Literal", "kind": literalKindString(n.Kind), "value": n.Value}

	case *Identifier:
		return map[string]interface{}{"type": "Identifier", "name": n.Name}

	case *Member:
		return map[string]interface{}{"type": "Member", "object": simplify(n.Object), "property": n.Property}

	case *OptionalMember:
		return map[string]interface{}{"type": "OptionalMember", "object": simplify(n.Object), "property": n.Property}

	case *Index:
		return map[string]interface{}{"type": "Index", "object": simplify(n.Object), "index": simplify(n.Index)}

	case *Call:
		m := map[string]interface{}{"type": "Call", "callee": simplify(n.Callee)}
		if len(n.Args) > 0 {
			m["args"] = simplifyExprSlice(n.Args)
		}
		return m

	case *New:
		m := map[string]interface{}{"type": "New", "callee": simplify(n.Callee)}
		if len(n.Args) > 0 {
			m["args"] = simplifyExprSlice(n.Args)
		}
		return m

	case *Unary:
		return map[string]interface{}{"type": "Unary", "op": n.Op, "x": simplify(n.X)}

	case *Binary:
		return map[string]interface{}{"type": "Binary", "op": n.Op, "left": simplify(n.Left), "right": simplify(n.Right)}

	case *Assign:
		return map[string]interface{}{"type": "Assign", "op": n.Op, "target": simplify(n.Target), "value": simplify(n.Value)}

	case *Conditional:
		return map[string]interface{}{
			"type": "Conditional", "cond": simplify(n.Cond),
			"then": simplify(n.Then), "else": simplify(n.Else),
		}

	case *Arrow:
		m := map[string]interface{}{"type": "Arrow", "body": simplify(n.Body)}
		if len(n.Params) > 0 {
			m["params"] = simplifySlice(n.Params)
		}
		return m

	case *Template:
		return map[string]interface{}{"type": "Template", "quasis": n.Quasis, "exprs": simplifyExprSlice(n.Exprs)}

	case *ObjectLiteral:
		m := map[string]interface{}{"type": "ObjectLiteral"}
		if len(n.Fields) > 0 {
			m["fields"] = simplifySlice(n.Fields)
		}
		return m

	case *ObjectField:
		return map[string]interface{}{"type": "ObjectField", "key": n.Key, "value": simplify(n.Value)}

	case *ArrayLiteral:
		m := map[string]interface{}{"type": "ArrayLiteral"}
		if len(n.Elements) > 0 {
			m["elements"] = simplifyExprSlice(n.Elements)
		}
		return m

	case *Spread:
		return map[string]interface{}{"type": "Spread", "x": simplify(n.X)}

	case *NullishCoalesce:
		return map[string]interface{}{"type": "NullishCoalesce", "left": simplify(n.Left), "right": simplify(n.Right)}

	case *InstanceOf:
		return map[string]interface{}{"type": "InstanceOf", "x": simplify(n.X), "typeName": n.TypeName}

	case *TypeOf:
		return map[string]interface{}{"type": "TypeOf", "x": simplify(n.X)}

	case *IdentPattern:
		return map[string]interface{}{"type": "IdentPattern", "name": n.Name}

	case *ObjectPattern:
		m := map[string]interface{}{"type": "ObjectPattern", "rest": n.Rest}
		if len(n.Fields) > 0 {
			m["fields"] = simplifySlice(n.Fields)
		}
		return m

	case *ObjectPatternField:
		return map[string]interface{}{"type": "ObjectPatternField", "key": n.Key, "value": simplify(n.Value)}

	case *ArrayPattern:
		m := map[string]interface{}{"type": "ArrayPattern", "rest": n.Rest}
		if len(n.Elements) > 0 {
			m["elements"] = simplifyPatternSlice(n.Elements)
		}
		return m

	case *Param:
		m := map[string]interface{}{"type": "Param", "name": n.Name}
		if n.Type != nil {
			m["typeAnnotation"] = simplify(n.Type)
		}
		return m

	case *NamedType:
		m := map[string]interface{}{"type": "NamedType", "name": n.Name}
		if len(n.Args) > 0 {
			m["args"] = simplifyTypeSlice(n.Args)
		}
		return m

	case *UnionType:
		return map[string]interface{}{"type": "UnionType", "variants": simplifyTypeSlice(n.Variants)}

	case *ArrayType:
		return map[string]interface{}{"type": "ArrayType", "element": simplify(n.Element)}

	case *TupleType:
		return map[string]interface{}{"type": "TupleType", "elements": simplifyTypeSlice(n.Elements)}

	case *FuncType:
		return map[string]interface{}{"type": "FuncType", "params": simplifyTypeSlice(n.Params), "return": simplify(n.Return)}

	case *GenericRef:
		return map[string]interface{}{"type": "GenericRef", "name": n.Name}

	case *WeakType:
		return map[string]interface{}{"type": "WeakType", "inner": simplify(n.Inner)}

	case *ObjectTypeLit:
		return map[string]interface{}{"type": "ObjectTypeLit", "fields": simplifySlice(n.Fields)}

	case *TypeField:
		return map[string]interface{}{"type": "TypeField", "name": n.Name, "typeAnnotation": simplify(n.Type)}

	case *LiteralType:
		return map[string]interface{}{"type": "LiteralType", "kind": literalKindString(n.Kind), "value": n.Value}

	default:
		return map[string]interface{}{"type": fmt.Sprintf("%T", node), "_note": "not yet handled by printer"}
	}
}

func isNilNode(v interface{}) bool {
	switch n := v.(type) {
	case *Block:
		return n == nil
	case Stmt:
		return n == nil
	case Expr:
		return n == nil
	case TypeAnn:
		return n == nil
	case Pattern:
		return n == nil
	default:
		return false
	}
}

func simplifyDeclSlice(decls []Decl) []interface{} {
	result := make([]interface{}, len(decls))
	for i, d := range decls {
		result[i] = simplify(d)
	}
	return result
}

func simplifyStmtSlice(stmts []Stmt) []interface{} {
	result := make([]interface{}, len(stmts))
	for i, s := range stmts {
		result[i] = simplify(s)
	}
	return result
}

func simplifyExprSlice(exprs []Expr) []interface{} {
	result := make([]interface{}, len(exprs))
	for i, e := range exprs {
		result[i] = simplify(e)
	}
	return result
}

func simplifyTypeSlice(types []TypeAnn) []interface{} {
	result := make([]interface{}, len(types))
	for i, t := range types {
		result[i] = simplify(t)
	}
	return result
}

func simplifyPatternSlice(patterns []Pattern) []interface{} {
	result := make([]interface{}, len(patterns))
	for i, p := range patterns {
		result[i] = simplify(p)
	}
	return result
}

func simplifySlice(items interface{}) []interface{} {
	switch items := items.(type) {
	case []*ImportDecl:
		return mapSimplify(len(items), func(i int) interface{} { return simplify(items[i]) })
	case []*Param:
		return mapSimplify(len(items), func(i int) interface{} { return simplify(items[i]) })
	case []*FieldDecl:
		return mapSimplify(len(items), func(i int) interface{} {
			return map[string]interface{}{"type": "FieldDecl", "name": items[i].Name, "typeAnnotation": simplify(items[i].Type)}
		})
	case []*MethodDecl:
		return mapSimplify(len(items), func(i int) interface{} {
			m := map[string]interface{}{"type": "MethodDecl", "name": items[i].Name}
			if items[i].Body != nil {
				m["body"] = simplify(items[i].Body)
			}
			return m
		})
	case []*EnumMember:
		return mapSimplify(len(items), func(i int) interface{} { return simplify(items[i]) })
	case []*SwitchCase:
		return mapSimplify(len(items), func(i int) interface{} { return simplify(items[i]) })
	case []*ObjectField:
		return mapSimplify(len(items), func(i int) interface{} { return simplify(items[i]) })
	case []*ObjectPatternField:
		return mapSimplify(len(items), func(i int) interface{} { return simplify(items[i]) })
	case []*TypeField:
		return mapSimplify(len(items), func(i int) interface{} { return simplify(items[i]) })
	default:
		return []interface{}{fmt.Sprintf("unhandled slice type: %T", items)}
	}
}

func mapSimplify(n int, f func(i int) interface{}) []interface{} {
	result := make([]interface{}, n)
	for i := 0; i < n; i++ {
		result[i] = f(i)
	}
	return result
}

func literalKindString(kind LiteralKind) string {
	switch kind {
	case IntLit:
		return "Int"
	case FloatLit:
		return "Float"
	case StringLit:
		return "String"
	case BoolLit:
		return "Bool"
	case NullLit:
		return "Null"
	case UndefinedLit:
		return "Undefined"
	default:
		return "Unknown"
	}
}
