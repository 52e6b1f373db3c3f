// Package pricing prices vanilla equity options and their sensitivities.
//
// Two pricers share one parameter set:
//   - PriceEuropean: Black-Scholes closed form
//   - PriceAmerican: Cox-Ross-Rubinstein binomial lattice with early exercise
//
// Greeks are always the analytic Black-Scholes ones and go through the same
// D1D2 helper as PriceEuropean. Every function is pure and safe for
// concurrent use.
package pricing
