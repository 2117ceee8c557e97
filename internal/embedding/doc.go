// Package embedding scores text similarity with pre-trained word vectors.
//
// A document is reduced to the average of its token vectors, and similarity
// between two documents is the cosine of their averaged vectors, floored at
// zero. Tokens are lowercased, stripped of stopwords, and lightly stemmed
// before lookup so that "prices" and "price" land on the same vector.
//
// Vectors load from the word2vec text format (a count/dimension header line
// followed by one word and its components per line). The full Google News
// model is several gigabytes; in practice a vocabulary filtered to the
// target domain keeps load times reasonable.
package embedding
