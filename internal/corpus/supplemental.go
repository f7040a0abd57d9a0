package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"

	"previsit-triage/internal/models"
	"previsit-triage/internal/parser"
)

// LoadSupplemental scans the supplements directory for free-form policy
// handouts (PDF, DOCX, XLSX, ODS, Markdown, plain text) and indexes them as
// hospital_info documents. Files the parser cannot handle are skipped, not
// fatal.
func (l *Loader) LoadSupplemental() []models.Document {
	if l.supplementsDir == "" {
		return nil
	}
	entries, err := os.ReadDir(l.supplementsDir)
	if err != nil {
		log.Warn().Str("dir", l.supplementsDir).Msg("supplements directory not found, skipping")
		return nil
	}

	var docs []models.Document
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(l.supplementsDir, entry.Name())
		chunks, err := parser.ParseFile(path, l.chunkSize, l.chunkOverlap)
		if err != nil {
			log.Warn().Err(err).Str("file", entry.Name()).Msg("skipping unparsable supplemental document")
			continue
		}
		for _, chunk := range chunks {
			docs = append(docs, models.Document{
				Content: chunk.Content,
				Metadata: map[string]string{
					"type":     models.DocTypeHospitalInfo,
					"category": "policy_document",
					"file":     entry.Name(),
					"chunk":    fmt.Sprintf("%d", chunk.ChunkID),
				},
				Source: "supplemental_" + entry.Name(),
			})
		}
	}
	if len(docs) > 0 {
		log.Info().Int("documents", len(docs)).Msg("loaded supplemental policy documents")
	}
	return docs
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
