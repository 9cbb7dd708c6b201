// Package textutil compares short texts such as news headlines.
//
// A Fingerprint is a term-frequency vector over character bigrams of each
// word, which tolerates the particle and suffix variation common in Korean
// headlines ("금리를" and "금리" share "금리"). Words are split on anything
// that is not a letter or digit and lowercased. Single-rune words are kept as
// unigrams. CosineSimilarity compares two fingerprints.
package textutil
