package codegen

import "fmt"

// ArgOrder is the calling convention for generated function prologues: the
// order in which the states, time and parameters arguments appear. It is a
// closed enumeration of the six permutations and affects only signatures,
// never the emitted equations.
type ArgOrder int

const (
	OrderTSP ArgOrder = iota // time, states, parameters
	OrderTPS                 // time, parameters, states
	OrderSTP                 // states, time, parameters
	OrderSPT                 // states, parameters, time
	OrderPST                 // parameters, states, time
	OrderPTS                 // parameters, time, states
)

const (
	tokenStates     = "states"
	tokenTime       = "time"
	tokenParameters = "parameters"
)

var orderTokens = map[ArgOrder][]string{
	OrderTSP: {tokenTime, tokenStates, tokenParameters},
	OrderTPS: {tokenTime, tokenParameters, tokenStates},
	OrderSTP: {tokenStates, tokenTime, tokenParameters},
	OrderSPT: {tokenStates, tokenParameters, tokenTime},
	OrderPST: {tokenParameters, tokenStates, tokenTime},
	OrderPTS: {tokenParameters, tokenTime, tokenStates},
}

// Tokens returns the argument tokens in calling order.
func (o ArgOrder) Tokens() []string {
	toks, ok := orderTokens[o]
	if !ok {
		toks = orderTokens[OrderTSP]
	}
	out := make([]string, len(toks))
	copy(out, toks)
	return out
}

func (o ArgOrder) String() string {
	switch o {
	case OrderTSP:
		return "tsp"
	case OrderTPS:
		return "tps"
	case OrderSTP:
		return "stp"
	case OrderSPT:
		return "spt"
	case OrderPST:
		return "pst"
	case OrderPTS:
		return "pts"
	}
	return "tsp"
}

// ParseArgOrder maps the compact three-letter form ("tsp", "stp", ...) to
// its ArgOrder.
func ParseArgOrder(s string) (ArgOrder, error) {
	for _, o := range []ArgOrder{OrderTSP, OrderTPS, OrderSTP, OrderSPT, OrderPST, OrderPTS} {
		if o.String() == s {
			return o, nil
		}
	}
	return OrderTSP, fmt.Errorf("codegen: unknown argument order %q", s)
}
