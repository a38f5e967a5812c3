// Package plex is a minimal read-only client for the Plex Media Server
// HTTP API, covering the library traversal the subtitle pipeline needs:
// TV sections, shows, episodes and their on-disk media paths.
package plex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Client talks to one Plex server. Safe for concurrent use.
type Client struct {
	baseURL string
	token   string
	client  *http.Client

	mu       sync.Mutex
	sections map[string]string // library title -> section key
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:   strings.TrimSpace(token),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// basic server identity
type ServerInfo struct {
	Name    string `json:"friendlyName"`
	Version string `json:"version"`
}

// one TV library section
type Section struct {
	Key   string `json:"key"`
	Type  string `json:"type"`
	Title string `json:"title"`
}

// one show in a section
type Show struct {
	RatingKey string `json:"ratingKey"`
	Title     string `json:"title"`
	Year      int    `json:"year"`
}

// one episode with its media file path
type Episode struct {
	RatingKey string
	Title     string
	Season    int
	Episode   int
	FilePath  string
}

type mediaContainer struct {
	MediaContainer struct {
		FriendlyName string    `json:"friendlyName"`
		Version      string    `json:"version"`
		Directory    []Section `json:"Directory"`
		Metadata     []struct {
			RatingKey string `json:"ratingKey"`
			Title     string `json:"title"`
			Year      int    `json:"year"`
			ParentIdx int    `json:"parentIndex"`
			Index     int    `json:"index"`
			Media     []struct {
				Part []struct {
					File string `json:"file"`
				} `json:"Part"`
			} `json:"Media"`
		} `json:"Metadata"`
	} `json:"MediaContainer"`
}

func (c *Client) get(ctx context.Context, path string, out *mediaContainer) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("plex: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Token", c.token)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("plex: request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("plex: authentication failed, check your token")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("plex: %s returned %d: %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("plex: decode %s: %w", path, err)
	}
	return nil
}

// ServerInfo identifies the server, doubling as a connectivity check.
func (c *Client) ServerInfo(ctx context.Context) (*ServerInfo, error) {
	var container mediaContainer
	if err := c.get(ctx, "/", &container); err != nil {
		return nil, err
	}
	return &ServerInfo{
		Name:    container.MediaContainer.FriendlyName,
		Version: container.MediaContainer.Version,
	}, nil
}

// TVSections lists library sections of type "show".
func (c *Client) TVSections(ctx context.Context) ([]Section, error) {
	var container mediaContainer
	if err := c.get(ctx, "/library/sections", &container); err != nil {
		return nil, err
	}

	var sections []Section
	for _, dir := range container.MediaContainer.Directory {
		if dir.Type == "show" {
			sections = append(sections, dir)
		}
	}
	return sections, nil
}

// sectionKey resolves and caches the section key for a library title. An
// empty title picks the first TV section.
func (c *Client) sectionKey(ctx context.Context, library string) (string, error) {
	c.mu.Lock()
	if key, ok := c.sections[library]; ok {
		c.mu.Unlock()
		return key, nil
	}
	c.mu.Unlock()

	sections, err := c.TVSections(ctx)
	if err != nil {
		return "", err
	}
	if len(sections) == 0 {
		return "", fmt.Errorf("plex: no TV libraries found")
	}

	key := ""
	if library == "" {
		key = sections[0].Key
	} else {
		for _, s := range sections {
			if strings.EqualFold(s.Title, library) {
				key = s.Key
				break
			}
		}
	}
	if key == "" {
		return "", fmt.Errorf("plex: library %q not found", library)
	}

	c.mu.Lock()
	if c.sections == nil {
		c.sections = make(map[string]string)
	}
	c.sections[library] = key
	c.mu.Unlock()
	return key, nil
}

// Shows lists all shows in the named TV library.
func (c *Client) Shows(ctx context.Context, library string) ([]Show, error) {
	key, err := c.sectionKey(ctx, library)
	if err != nil {
		return nil, err
	}

	var container mediaContainer
	if err := c.get(ctx, "/library/sections/"+url.PathEscape(key)+"/all", &container); err != nil {
		return nil, err
	}

	shows := make([]Show, 0, len(container.MediaContainer.Metadata))
	for _, meta := range container.MediaContainer.Metadata {
		shows = append(shows, Show{RatingKey: meta.RatingKey, Title: meta.Title, Year: meta.Year})
	}
	return shows, nil
}

// Episodes lists every episode of a show with its media file path.
func (c *Client) Episodes(ctx context.Context, showRatingKey string) ([]Episode, error) {
	var container mediaContainer
	path := "/library/metadata/" + url.PathEscape(showRatingKey) + "/allLeaves"
	if err := c.get(ctx, path, &container); err != nil {
		return nil, err
	}

	episodes := make([]Episode, 0, len(container.MediaContainer.Metadata))
	for _, meta := range container.MediaContainer.Metadata {
		episode := Episode{
			RatingKey: meta.RatingKey,
			Title:     meta.Title,
			Season:    meta.ParentIdx,
			Episode:   meta.Index,
		}
		if len(meta.Media) > 0 && len(meta.Media[0].Part) > 0 {
			episode.FilePath = meta.Media[0].Part[0].File
		}
		episodes = append(episodes, episode)
	}
	return episodes, nil
}

var subtitleExtensions = map[string]bool{
	".srt": true, ".ass": true, ".ssa": true, ".vtt": true, ".sub": true,
}

// a subtitle file found next to an episode's media file
type SidecarSubtitle struct {
	Path     string
	Language string // guessed from the filename suffix, may be empty
}

// SidecarSubtitles finds subtitle files stored beside a media file that
// share its base name (e.g. episode.ja.srt next to episode.mkv).
func SidecarSubtitles(mediaPath string) ([]SidecarSubtitle, error) {
	dir := filepath.Dir(mediaPath)
	base := strings.TrimSuffix(filepath.Base(mediaPath), filepath.Ext(mediaPath))

	listing, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("plex: read media directory: %w", err)
	}

	var found []SidecarSubtitle
	for _, item := range listing {
		if item.IsDir() {
			continue
		}
		name := item.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !subtitleExtensions[ext] || !strings.HasPrefix(name, base) {
			continue
		}

		// language code between base name and extension: base.ja.srt
		middle := strings.TrimSuffix(strings.TrimPrefix(name, base), ext)
		language := strings.Trim(middle, ".")

		found = append(found, SidecarSubtitle{
			Path:     filepath.Join(dir, name),
			Language: language,
		})
	}
	return found, nil
}
