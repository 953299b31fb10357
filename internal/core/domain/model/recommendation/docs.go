// Package recommendation holds the rules of the daily dish recommendation batch:
// how a prompt is built from delivered orders, how the language model answer is
// parsed, and the shape cached per user.
package recommendation
