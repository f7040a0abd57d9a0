package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

const (
	maxTokens    = 20
	keywordBonus = 2.0
)

// Curated keyword sets mapped to reserved vector slots so queries about the
// same concern cluster even under hash embeddings.
var (
	medicalKeywords    = map[string]bool{"pain": true, "chest": true, "heart": true, "emergency": true}
	insuranceKeywords  = map[string]bool{"insurance": true, "copay": true, "coverage": true}
	schedulingKeywords = map[string]bool{"appointment": true, "schedule": true, "time": true}
)

// Deterministic is a reproducible bag-of-tokens hash embedder. It has no
// external dependency: identical input always yields a bit-identical,
// L2-normalized vector.
type Deterministic struct{}

func NewDeterministic() *Deterministic {
	return &Deterministic{}
}

func (d *Deterministic) Name() string { return "deterministic-hash" }

func (d *Deterministic) Embed(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vectors[i] = d.embedText(text)
	}
	return vectors, nil
}

func (d *Deterministic) EmbedQuery(_ context.Context, text string) ([]float32, error) {
	return d.embedText(text), nil
}

func (d *Deterministic) embedText(text string) []float32 {
	vector := make([]float32, Dimensions)
	tokens := strings.Fields(strings.ToLower(text))
	if len(tokens) > maxTokens {
		tokens = tokens[:maxTokens]
	}

	for i, token := range tokens {
		pos := tokenIndex(token)
		vector[pos] += float32(1.0 / float64(i+1))

		switch {
		case medicalKeywords[token]:
			vector[0] += keywordBonus
		case insuranceKeywords[token]:
			vector[1] += keywordBonus
		case schedulingKeywords[token]:
			vector[2] += keywordBonus
		}
	}

	return normalize(vector)
}

func tokenIndex(token string) int {
	h := fnv.New32a()
	h.Write([]byte(token))
	return int(h.Sum32()%1000) * 13 % Dimensions
}

// normalize scales the vector to unit L2 norm. A zero vector is returned
// unchanged.
func normalize(v []float32) []float32 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}
