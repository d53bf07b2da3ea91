// Package beatport identifies tracks on the Beatport catalog by reading the
// Next.js state embedded in its pages.
package beatport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gosimple/slug"
	jsoniter "github.com/json-iterator/go"

	"github.com/bearbyt3z/bear-tunes/internal/logger"
	"github.com/bearbyt3z/bear-tunes/internal/metadata"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultDomainURL is the public Beatport site.
const DefaultDomainURL = "https://www.beatport.com"

// Client is a Beatport page client that implements metadata.Catalog.
type Client struct {
	httpClient *http.Client
	domainURL  string
	userAgent  string
	logger     *logger.Logger
}

// New creates a new Beatport client for domainURL.
func New(domainURL string, log *logger.Logger) *Client {
	if domainURL == "" {
		domainURL = DefaultDomainURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		domainURL:  strings.TrimRight(domainURL, "/"),
		userAgent:  "bear-tunes/1.0",
		logger:     log,
	}
}

func (c *Client) Name() string { return "beatport" }

func (c *Client) searchURL(keywords []string) string {
	return c.domainURL + "/search/tracks?per_page=150&q=" + url.QueryEscape(strings.Join(keywords, "+"))
}

// Search returns the track results of a keyword search.
func (c *Client) Search(ctx context.Context, keywords []string) ([]metadata.CandidateRecord, error) {
	var results []searchTrack
	if err := c.extractNextData(ctx, c.searchURL(keywords), &results); err != nil {
		return nil, err
	}

	records := make([]metadata.CandidateRecord, 0, len(results))
	for _, r := range results {
		rec := metadata.CandidateRecord{
			ID:       r.TrackID,
			URL:      fmt.Sprintf("%s/track/%s/%d", c.domainURL, slug.Make(r.TrackName), r.TrackID),
			Name:     r.TrackName,
			MixName:  r.MixName,
			Released: parseDate(r.ReleaseDate),
			LengthMS: r.Length,
		}
		for _, a := range r.Artists {
			rec.Artists = append(rec.Artists, metadata.CandidateArtist{
				Name: a.ArtistName,
				Role: metadata.ArtistRole(a.ArtistTypeName),
			})
		}
		records = append(records, rec)
	}
	return records, nil
}

// Track fetches the full metadata of a track page. Album and label pages are
// fetched as well; their failures are logged and leave the field empty.
func (c *Client) Track(ctx context.Context, trackURL string) (metadata.TrackInfo, error) {
	var data trackPage
	if err := c.extractNextData(ctx, trackURL, &data); err != nil {
		return metadata.TrackInfo{}, err
	}

	title := metadata.FormatTitle(data.Name, data.MixName)
	info := metadata.TrackInfo{
		URL:      trackURL,
		Artists:  metadata.BuildArtists(names(data.Artists), title),
		Title:    title,
		Remixers: metadata.BuildArtists(names(data.Remixers), title),
		Released: parseDate(data.NewReleaseDate),
		BPM:      max(data.BPM, 0),
		ISRC:     data.ISRC,
	}
	if data.ID > 0 {
		info.UFID = "track-" + strconv.FormatInt(data.ID, 10)
	}
	if !info.Released.IsZero() {
		info.Year = info.Released.Year()
	}
	if data.Genre != nil {
		subgenre := ""
		if data.SubGenre != nil {
			subgenre = data.SubGenre.Name
		}
		info.Genre = metadata.BuildGenreTag(data.Genre.Name, subgenre)
	}
	if data.Key != nil && data.Key.Name != "" {
		key, err := metadata.BuildKeyTag(data.Key.Name)
		if err != nil {
			c.logger.Warn("  %v", err)
		} else {
			info.Key = key
		}
	}
	if data.Image != nil {
		info.Waveform = data.Image.URI
	}
	if data.LengthMS > 0 {
		info.Details = &metadata.TrackDetails{Duration: float64(data.LengthMS) / 1000}
	}

	if rel := data.Release; rel != nil {
		if rel.Label != nil {
			labelURL := fmt.Sprintf("%s/label/%s/%d", c.domainURL, rel.Label.Slug, rel.Label.ID)
			publisher, err := c.publisher(ctx, labelURL)
			if err != nil {
				c.logger.Warn("  Cannot fetch label data: %v", err)
			} else {
				info.Publisher = publisher
			}
		}

		albumURL := fmt.Sprintf("%s/release/%s/%d", c.domainURL, rel.Slug, rel.ID)
		album, err := c.album(ctx, albumURL, data.Number)
		if err != nil {
			c.logger.Warn("  Cannot fetch release data: %v", err)
		} else {
			info.Album = album
		}
	}

	return info, nil
}

func (c *Client) album(ctx context.Context, albumURL string, trackNumber int) (*metadata.AlbumInfo, error) {
	var data releasePage
	if err := c.extractNextData(ctx, albumURL, &data); err != nil {
		return nil, err
	}
	album := &metadata.AlbumInfo{
		Artists:       metadata.BuildArtists(names(data.Artists), ""),
		Title:         metadata.ReplaceTagForbiddenChars(data.Name),
		CatalogNumber: data.CatalogNumber,
		TrackNumber:   max(trackNumber, 0),
		TrackTotal:    max(data.TrackCount, 0),
		URL:           albumURL,
	}
	if data.Image != nil {
		album.Artwork = data.Image.URI
	}
	return album, nil
}

func (c *Client) publisher(ctx context.Context, labelURL string) (*metadata.PublisherInfo, error) {
	var data labelPage
	if err := c.extractNextData(ctx, labelURL, &data); err != nil {
		return nil, err
	}
	publisher := &metadata.PublisherInfo{Name: data.Name, URL: labelURL}
	if data.Image != nil {
		publisher.Logotype = data.Image.URI
	}
	return publisher, nil
}

// extractNextData loads a page and decodes the first query state of its
// Next.js object into v. A state holding a "data" array is unwrapped.
func (c *Client) extractNextData(ctx context.Context, pageURL string, v interface{}) error {
	body, err := c.fetch(ctx, pageURL)
	if err != nil {
		return err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	text := strings.TrimSpace(doc.Find("#__NEXT_DATA__").First().Text())
	if text == "" {
		return &metadata.MalformedDataError{URL: pageURL, Reason: "Cannot obtain Next.js object."}
	}
	raw := []byte(text)
	if !json.Valid(raw) {
		return &metadata.MalformedDataError{URL: pageURL, Reason: "Cannot parse Next.js object"}
	}

	state := jsoniter.Get(raw, "props", "pageProps", "dehydratedState", "queries", 0, "state", "data")
	if vt := state.ValueType(); state.LastError() != nil || (vt != jsoniter.ObjectValue && vt != jsoniter.ArrayValue) {
		return &metadata.MalformedDataError{URL: pageURL, Reason: "Cannot unpack state data from Next.js object."}
	}
	if inner := state.Get("data"); inner.ValueType() == jsoniter.ArrayValue {
		state = inner
	}

	if err := json.UnmarshalFromString(state.ToString(), v); err != nil {
		return &metadata.MalformedDataError{URL: pageURL, Reason: "Cannot unpack state data from Next.js object.", Err: err}
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, pageURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create beatport request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("beatport request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("beatport returned %d for %s", resp.StatusCode, pageURL)
	}
	return resp.Body, nil
}

func names(artists []namedEntity) []string {
	out := make([]string, 0, len(artists))
	for _, a := range artists {
		out = append(out, a.Name)
	}
	return out
}

func parseDate(s string) time.Time {
	if len(s) >= len(time.DateOnly) {
		if t, err := time.Parse(time.DateOnly, s[:len(time.DateOnly)]); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Beatport Next.js state types

type searchTrack struct {
	TrackID     int64          `json:"track_id"`
	TrackName   string         `json:"track_name"`
	MixName     string         `json:"mix_name"`
	Artists     []searchArtist `json:"artists"`
	ReleaseDate string         `json:"release_date"`
	Length      int64          `json:"length"`
}

type searchArtist struct {
	ArtistName     string `json:"artist_name"`
	ArtistTypeName string `json:"artist_type_name"`
}

type namedEntity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type image struct {
	URI string `json:"uri"`
}

type trackPage struct {
	ID             int64         `json:"id"`
	Name           string        `json:"name"`
	MixName        string        `json:"mix_name"`
	Artists        []namedEntity `json:"artists"`
	Remixers       []namedEntity `json:"remixers"`
	NewReleaseDate string        `json:"new_release_date"`
	BPM            int           `json:"bpm"`
	Key            *namedEntity  `json:"key"`
	Genre          *namedEntity  `json:"genre"`
	SubGenre       *namedEntity  `json:"sub_genre"`
	LengthMS       int64         `json:"length_ms"`
	Image          *image        `json:"image"`
	ISRC           string        `json:"isrc"`
	Number         int           `json:"number"`
	Release        *releaseRef   `json:"release"`
}

type releaseRef struct {
	ID    int64     `json:"id"`
	Slug  string    `json:"slug"`
	Label *labelRef `json:"label"`
}

type labelRef struct {
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
}

type releasePage struct {
	Artists       []namedEntity `json:"artists"`
	Name          string        `json:"name"`
	CatalogNumber string        `json:"catalog_number"`
	TrackCount    int           `json:"track_count"`
	Image         *image        `json:"image"`
}

type labelPage struct {
	Name  string `json:"name"`
	Image *image `json:"image"`
}
