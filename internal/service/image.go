package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/mealmuse/backend/config"
)

// Placeholder URLs assigned when enrichment cannot produce an image.
// PlaceholderNoImage means both lookups came back empty; PlaceholderFetchFailed
// means a lookup itself errored.
const (
	PlaceholderNoImage     = "https://via.placeholder.com/512?text=No+Image+Available"
	PlaceholderFetchFailed = "https://via.placeholder.com/512?text=Image+Unavailable"
)

// ImageSearcher finds zero-or-one image URL for a query
type ImageSearcher interface {
	SearchImage(ctx context.Context, query string) (string, error)
}

// ImageService queries Unsplash for recipe images and stores uploaded
// recipe media in S3
type ImageService struct {
	accessKey string
	searchURL string
	client    *http.Client
	s3Config  *config.S3Config
}

// NewImageService creates a new ImageService instance
func NewImageService(cfg *config.Config, s3Config *config.S3Config) *ImageService {
	return &ImageService{
		accessKey: cfg.UnsplashAccessKey,
		searchURL: "https://api.unsplash.com/search/photos",
		client:    &http.Client{},
		s3Config:  s3Config,
	}
}

// SearchImage queries the image search service and returns the first match,
// or "" when the search produced no result
func (s *ImageService) SearchImage(ctx context.Context, query string) (string, error) {
	u := fmt.Sprintf("%s?query=%s&orientation=squarish&per_page=1&client_id=%s",
		s.searchURL, url.QueryEscape(query), s.accessKey)

	req, err := http.NewRequestWithContext(ctx, "GET", u, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image search API error: %d", resp.StatusCode)
	}

	var result struct {
		Results []struct {
			URLs struct {
				Small string `json:"small"`
			} `json:"urls"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if len(result.Results) == 0 {
		return "", nil
	}
	return result.Results[0].URLs.Small, nil
}

// EnrichRecipes assigns an image URL to each generated recipe, one item at a
// time: title lookup, then imageDescription lookup, then a placeholder. A
// failure here degrades one item's image and never aborts the request.
func EnrichRecipes(ctx context.Context, searcher ImageSearcher, recipes []GeneratedRecipe) {
	for i := range recipes {
		recipes[i].ImageURL = enrichOne(ctx, searcher, &recipes[i])
	}
}

func enrichOne(ctx context.Context, searcher ImageSearcher, recipe *GeneratedRecipe) string {
	imageURL, err := searcher.SearchImage(ctx, recipe.Title)
	if err != nil {
		log.Printf("[ImageService] Error fetching image for %q: %v", recipe.Title, err)
		return PlaceholderFetchFailed
	}

	if imageURL == "" && recipe.ImageDescription != "" {
		imageURL, err = searcher.SearchImage(ctx, recipe.ImageDescription)
		if err != nil {
			log.Printf("[ImageService] Error fetching image for %q: %v", recipe.Title, err)
			return PlaceholderFetchFailed
		}
	}

	if imageURL == "" {
		return PlaceholderNoImage
	}
	return imageURL
}

// UploadMedia stores recipe media in S3 and returns the public URL
func (s *ImageService) UploadMedia(ctx context.Context, data []byte, contentType string) (string, error) {
	if s.s3Config == nil {
		return "", fmt.Errorf("media storage is not configured")
	}

	fileName := fmt.Sprintf("recipe-media/%s", uuid.New().String())

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, fileName)
	log.Printf("[ImageService] Successfully uploaded media to S3: %s", publicURL)

	return publicURL, nil
}

// ReadLimited reads at most limit bytes from r, failing when the payload
// exceeds it
func ReadLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, fmt.Errorf("payload exceeds %d bytes", limit)
	}
	return data, nil
}
