package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/bpresles/CasaNova/common/crawler"
	"github.com/rs/zerolog/log"
)

const snapshotTimeLayout = "20060102T150405"

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// SnapshotArchiver stores each fetched page as raw HTML plus a markdown rendition.
type SnapshotArchiver struct {
	store     ObjectStore
	converter *md.Converter
}

var _ crawler.SnapshotArchiver = (*SnapshotArchiver)(nil)

func NewSnapshotArchiver(store ObjectStore) *SnapshotArchiver {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())
	return &SnapshotArchiver{
		store:     store,
		converter: converter,
	}
}

// ObjectPrefix is snapshots/<category>/<CODE>/<yyyymmddThhmmss>-<source-slug>.
func ObjectPrefix(s crawler.Snapshot) string {
	return path.Join("snapshots", string(s.Category), strings.ToUpper(s.CountryCode),
		s.FetchedAt.UTC().Format(snapshotTimeLayout)+"-"+slug(s.Source.Name))
}

func slug(name string) string {
	s := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if s == "" {
		return "source"
	}
	return s
}

func snapshotMetadata(s crawler.Snapshot) map[string]string {
	return map[string]string{
		"category": string(s.Category),
		"country":  strings.ToUpper(s.CountryCode),
		"source":   s.Source.Name,
		"url":      s.FinalURL,
	}
}

func (a *SnapshotArchiver) Archive(ctx context.Context, s crawler.Snapshot) error {
	prefix := ObjectPrefix(s)
	meta := snapshotMetadata(s)

	err := a.store.Put(ctx, Object{
		Name:        prefix + ".html",
		Body:        bytes.NewReader(s.Body),
		ContentType: "text/html; charset=utf-8",
		Metadata:    meta,
	})
	if err != nil {
		return fmt.Errorf("archiving html snapshot: %w", err)
	}

	markdown, err := a.converter.ConvertString(string(s.Body))
	if err != nil {
		// Markdown is best effort once the HTML is stored.
		log.Warn().Err(err).Str("object", prefix).Msg("Markdown rendition failed")
		return nil
	}
	header := fmt.Sprintf("<!-- source: %s\n     url: %s -->\n\n", s.Source.Name, s.FinalURL)
	err = a.store.Put(ctx, Object{
		Name:        prefix + ".md",
		Body:        strings.NewReader(header + markdown),
		ContentType: "text/markdown; charset=utf-8",
		Metadata:    meta,
	})
	if err != nil {
		return fmt.Errorf("archiving markdown snapshot: %w", err)
	}
	return nil
}
