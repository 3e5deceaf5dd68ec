// Package prepare turns the cases of a manifest into solver games.
//
// Each case runs a linear pipeline of stages on top of the dag engine:
//
//	compile   mcrl22lps --verbose <spec> <work>/<base>.lps
//	generate  lps2lts --verbose <base>.lps <work>/<base>.aut
//	relabel   rewrite action labels into <work>/<base>.renamed.aut
//	game:<p>  merc-vpg translate <FD> <base>.renamed.aut <p>.mcf <work>/<p>.svpg
//
// A stage runs only when its output is stale with respect to its inputs, so
// rerunning prepare after editing one property rebuilds only that game.
package prepare
