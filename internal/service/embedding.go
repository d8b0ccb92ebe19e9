package service

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pageza/recipeverse/backend/internal/model"
)

// GenerateEmbedding returns a deterministic feature-hashed embedding of a
// recipe's title and ingredients. Ingredients weigh twice as much as title
// words so recipes sharing ingredients land close together.
func GenerateEmbedding(title string, ingredients []string) pgvector.Vector {
	vec := make([]float32, model.EmbeddingDimensions)

	add := func(token string, weight float32) {
		if token == "" {
			return
		}
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		vec[h.Sum32()%model.EmbeddingDimensions] += weight
	}

	for _, word := range strings.FieldsFunc(strings.ToLower(title), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		add(word, 1)
	}
	for _, ing := range ingredients {
		add(strings.ToLower(strings.TrimSpace(ing)), 2)
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}

	return pgvector.NewVector(vec)
}

// EmbeddingDistance is the Euclidean distance between two embeddings,
// matching pgvector's <-> operator.
func EmbeddingDistance(a, b pgvector.Vector) float64 {
	av, bv := a.Slice(), b.Slice()
	n := len(av)
	if len(bv) < n {
		n = len(bv)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(av[i]) - float64(bv[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
