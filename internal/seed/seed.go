// Package seed loads question documents from a local directory tree laid out
// as questions/{bookSource}/{questionId}.json into the repository. It backs
// the bootstrap step and the standalone seeder; per-file failures are logged
// as warnings and never abort the run.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/bookquiz/bookquiz-backend/internal/model"
)

// DocPutter is the write surface of the question repository.
type DocPutter interface {
	Put(ctx context.Context, doc *model.QuestionDocument) error
}

// Load walks dir for question documents and upserts each one. It returns the
// number of documents stored and the number of files skipped due to errors.
// Only the inability to walk the tree itself is a hard error.
func Load(ctx context.Context, repo DocPutter, dir string, log zerolog.Logger) (stored, skipped int, err error) {
	root := filepath.Join(dir, "questions")
	if _, statErr := os.Stat(root); statErr != nil {
		return 0, 0, fmt.Errorf("seed dir: %w", statErr)
	}

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".json") {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}

		doc, err := readDoc(rel, path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Skipping question document")
			skipped++
			return nil
		}

		if err := repo.Put(ctx, doc); err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Failed to store question document")
			skipped++
			return nil
		}

		stored++
		return nil
	})
	if walkErr != nil {
		return stored, skipped, fmt.Errorf("walk seed dir: %w", walkErr)
	}

	return stored, skipped, nil
}

// readDoc parses and validates one document file. The path-derived
// identifiers are authoritative; the body must agree where it sets them.
func readDoc(relPath, fullPath string) (*model.QuestionDocument, error) {
	bookSource, questionID, err := model.ParseDocPath(filepath.ToSlash(relPath))
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, err
	}

	var doc model.QuestionDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	if doc.BookSource == "" {
		doc.BookSource = bookSource
	}
	if doc.QuestionID == "" {
		doc.QuestionID = questionID
	}
	if doc.BookSource != bookSource || doc.QuestionID != questionID {
		return nil, fmt.Errorf("document ids %s/%s do not match path %s", doc.BookSource, doc.QuestionID, relPath)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}
