package embedding

import (
	"bufio"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Errors returned when loading word vectors.
var (
	// ErrMalformedVectorFile is returned when the vector file does not
	// follow the word2vec text format.
	ErrMalformedVectorFile = errors.New("malformed word vector file")

	// ErrEmptyVocabulary is returned when the vector file declares no words.
	ErrEmptyVocabulary = errors.New("word vector file has an empty vocabulary")
)

// Vectors holds pre-trained word embeddings keyed by token.
type Vectors struct {
	dim   int
	words map[string][]float32
}

// Dim returns the vector dimensionality.
func (v *Vectors) Dim() int { return v.dim }

// Size returns the number of words in the vocabulary.
func (v *Vectors) Size() int { return len(v.words) }

// Lookup returns the vector for a token, or nil when the token is out of
// vocabulary.
func (v *Vectors) Lookup(token string) []float32 {
	return v.words[token]
}

// LoadVectors reads embeddings in the word2vec text format: a header line
// with the vocabulary size and dimension, then one word per line followed
// by its components.
func LoadVectors(path string) (*Vectors, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open word vector file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		return nil, fmt.Errorf("%w: missing header line", ErrMalformedVectorFile)
	}
	header := strings.Fields(scanner.Text())
	if len(header) != 2 {
		return nil, fmt.Errorf("%w: header %q", ErrMalformedVectorFile, scanner.Text())
	}
	count, err := strconv.Atoi(header[0])
	if err != nil {
		return nil, fmt.Errorf("%w: vocabulary size %q", ErrMalformedVectorFile, header[0])
	}
	dim, err := strconv.Atoi(header[1])
	if err != nil || dim <= 0 {
		return nil, fmt.Errorf("%w: dimension %q", ErrMalformedVectorFile, header[1])
	}
	if count <= 0 {
		return nil, ErrEmptyVocabulary
	}

	vectors := &Vectors{
		dim:   dim,
		words: make(map[string][]float32, count),
	}
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != dim+1 {
			return nil, fmt.Errorf("%w: expected %d components for %q, got %d",
				ErrMalformedVectorFile, dim, fields[0], len(fields)-1)
		}

		vec := make([]float32, dim)
		for i, field := range fields[1:] {
			val, err := strconv.ParseFloat(field, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: component %q for %q", ErrMalformedVectorFile, field, fields[0])
			}
			vec[i] = float32(val)
		}
		vectors.words[strings.ToLower(fields[0])] = vec
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read word vector file: %w", err)
	}
	if len(vectors.words) == 0 {
		return nil, ErrEmptyVocabulary
	}

	return vectors, nil
}

// DocumentVector averages the vectors of the in-vocabulary tokens. Tokens
// without a vector are skipped; a document with no known tokens yields the
// zero vector.
func (v *Vectors) DocumentVector(tokens []string) []float64 {
	doc := make([]float64, v.dim)
	matched := 0
	for _, token := range tokens {
		vec := v.words[token]
		if vec == nil {
			continue
		}
		for i, component := range vec {
			doc[i] += float64(component)
		}
		matched++
	}
	if matched == 0 {
		return doc
	}
	for i := range doc {
		doc[i] /= float64(matched)
	}
	return doc
}

// Similarity returns the cosine similarity between the averaged vectors of
// two token lists, floored at zero. If either side has no in-vocabulary
// tokens the similarity is zero.
func (v *Vectors) Similarity(docTokens, keywordTokens []string) float64 {
	return math.Max(0, cosine(v.DocumentVector(docTokens), v.DocumentVector(keywordTokens)))
}

func cosine(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
