package resolver

import "github.com/nxlang/nx/internal/ast"

func (r *Resolver) resolveExpression(expr ast.Expression) {
	switch e := expr.(type) {
	case nil:
		return
	case *ast.NumberLiteral, *ast.BoolLiteral, *ast.NilLiteral:
		// Leaves; nothing to resolve.
	case *ast.StringLiteral:
		for _, part := range e.Parts {
			r.resolveExpression(part)
		}
	case *ast.Identifier:
		r.resolveIdentifier(e)
	case *ast.SeqLiteral:
		for _, el := range e.Elements {
			r.resolveExpression(el)
		}
	case *ast.TupleLiteral:
		for _, el := range e.Elements {
			r.resolveExpression(el)
		}
	case *ast.ObjLiteral:
		for _, entry := range e.Entries {
			r.resolveExpression(entry.Value)
		}
	case *ast.GroupingExpression:
		r.resolveExpression(e.Inner)
	case *ast.UnaryExpression:
		r.resolveExpression(e.Right)
	case *ast.PostfixExpression:
		// Only a plain variable can be re-read and re-stored by the
		// compiler's postfix codegen; obj.x++ / seq[0]++ would need the
		// receiver/index held somewhere to be read twice without
		// re-evaluating it, which compilePostfix doesn't do.
		if _, ok := e.Left.(*ast.Identifier); !ok {
			r.errorf(e.Token, "postfix %q target must be a variable", e.Operator)
			r.resolveExpression(e.Left)
			return
		}
		r.resolveAssignTarget(e.Left)
	case *ast.BinaryExpression:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *ast.AndExpression:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *ast.OrExpression:
		r.resolveExpression(e.Left)
		r.resolveExpression(e.Right)
	case *ast.TernaryExpression:
		r.resolveExpression(e.Condition)
		r.resolveExpression(e.Then)
		r.resolveExpression(e.Else)
	case *ast.AssignExpression:
		r.resolveAssignTarget(e.Target)
		r.resolveExpression(e.Value)
	case *ast.CallExpression:
		r.resolveExpression(e.Callee)
		for _, arg := range e.Arguments {
			r.resolveExpression(arg)
		}
	case *ast.DotExpression:
		r.resolveExpression(e.Receiver)
	case *ast.SubscriptExpression:
		r.resolveExpression(e.Receiver)
		r.resolveExpression(e.Index)
	case *ast.SliceExpression:
		r.resolveExpression(e.Receiver)
		if e.From != nil {
			r.resolveExpression(e.From)
		}
		if e.To != nil {
			r.resolveExpression(e.To)
		}
	case *ast.ThisExpression:
		if !r.nearestMethod(false) {
			r.errorf(e.Token, "'this' is only valid inside a non-static method")
		}
	case *ast.BaseExpression:
		if !r.nearestMethod(true) {
			r.errorf(e.Token, "'base' is only valid inside a non-static method of a derived class")
		}
	case *ast.LambdaExpression:
		r.resolveFunctionLiteral(e.Fn, false, false, false)
	case *ast.IsExpression:
		r.resolveExpression(e.Left)
		r.resolveIdentifier(e.Class)
	case *ast.InExpression:
		r.resolveExpression(e.Value)
		r.resolveExpression(e.Collection)
	case *ast.TryExpression:
		r.resolveExpression(e.Inner)
	}
}

// nearestMethod walks outward through enclosing functions (lambdas don't
// reset method context, since `this`/`base` inside a lambda still refer to
// the enclosing method's receiver via upvalue capture) to find whether the
// reference sits inside a non-static method, and if requireBase is set,
// that the owning class has a base.
func (r *Resolver) nearestMethod(requireBase bool) bool {
	for f := r.fn; f != nil; f = f.enclosing {
		if f.isMethod {
			if f.isStatic {
				return false
			}
			if requireBase {
				return r.class != nil && r.class.hasBase
			}
			return true
		}
	}
	return false
}
