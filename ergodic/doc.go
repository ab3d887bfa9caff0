// Package ergodic restricts a count matrix to its largest ergodic (strongly
// connected) set of states.
//
// A Markov model is only well defined on states that can reach and be
// reached from each other. Trim repeatedly
//
//  1. drops states whose support (counts in + counts out, within the
//     surviving set) is below MinSupport;
//  2. computes strongly connected components of the surviving subgraph of
//     the raw count matrix;
//  3. keeps the largest component (ties: larger internal count mass, then
//     smallest member index);
//
// until a round keeps every state it started with. The surviving states are
// renumbered 0..k−1 in their original relative order.
package ergodic
