// methods.go — method dispatch.
//
// A method call resolves at build time against the static type of its
// target: lists, strings and paths each carry their own method set, and
// anything else has none. The three buildXxxMethod functions live in their
// own files; the shared plumbing is here.
package findit

import "strings"

func buildMethodCall(n *MethodCall, b *Bindings) (Evaluator, error) {
	target, err := Build(n.Target, b)
	if err != nil {
		return nil, err
	}
	switch target.Type().Tag {
	case TagList:
		return buildListMethod(n, target, b)
	case TagString:
		return buildStringMethod(n, target, b)
	case TagPath:
		return buildPathMethod(n, target, b)
	default:
		return nil, typeErrf(n.span, "%s has no method .%s", target.Type(), methodName(n.Name))
	}
}

func methodName(canonical string) string {
	switch canonical {
	case "FLATMAP":
		return "flatMap"
	case "SORTBY":
		return "sortBy"
	case "DISTINCTBY":
		return "distinctBy"
	case "GROUPBY":
		return "groupBy"
	case "INDEXOF":
		return "indexOf"
	default:
		return strings.ToLower(canonical)
	}
}

// buildLambda compiles a method's lambda body with the parameter bound to
// itemT. The parameter's slot is the depth of the surrounding environment,
// which is where the iterating evaluator pushes each item at run time.
func buildLambda(n *MethodCall, itemT ValueType, b *Bindings) (Evaluator, error) {
	if n.Lambda == nil {
		return nil, typeErrf(n.span, ".%s() expects a lambda", methodName(n.Name))
	}
	return Build(n.Lambda.Body, b.extend(n.Lambda.Param, itemT))
}

// noArg rejects stray arguments on zero-argument methods.
func noArg(n *MethodCall) error {
	if n.Arg != nil || n.Lambda != nil {
		return typeErrf(n.span, ".%s() takes no argument", methodName(n.Name))
	}
	return nil
}

// oneArg builds the single required argument and insists on its type.
func oneArg(n *MethodCall, b *Bindings, want ValueType) (Evaluator, error) {
	if n.Arg == nil {
		return nil, typeErrf(n.span, ".%s() expects an argument", methodName(n.Name))
	}
	ev, err := Build(n.Arg, b)
	if err != nil {
		return nil, err
	}
	if !ev.Type().Same(want) {
		return nil, typeErrf(n.Arg.pos(), ".%s() expects %s, got %s", methodName(n.Name), want, ev.Type())
	}
	return ev, nil
}
