package engine

import (
	"context"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/auth/credentials"
	speech "cloud.google.com/go/speech/apiv2"
	speechpb "cloud.google.com/go/speech/apiv2/speechpb"
	"github.com/toller892/paraformer-api-server/internal/engine"
	"google.golang.org/api/option"
)

const speechAPIEndpointPort = 443

type CloudSpeechConfig struct {
	ProjectID       string
	CredentialsJSON string
	Location        string
	Model           string
}

// CloudSpeechTranscriber implements engine.Transcriber with the Google Cloud
// Speech v2 batch API. The client is created once during Warm; the readiness
// gate guarantees no Transcribe call observes an unset client. The cloud
// backend yields flat text without segment structure, and carries no
// diarization engine.
type CloudSpeechTranscriber struct {
	projectID       string
	credentialsJSON string
	location        string
	model           string

	client *speech.Client
}

func NewCloudSpeechTranscriber(cfg CloudSpeechConfig) *CloudSpeechTranscriber {
	location := strings.TrimSpace(cfg.Location)
	if location == "" {
		location = "global"
	}
	return &CloudSpeechTranscriber{
		projectID:       cfg.ProjectID,
		credentialsJSON: cfg.CredentialsJSON,
		location:        location,
		model:           strings.TrimSpace(cfg.Model),
	}
}

// Warm detects credentials and establishes the API client.
func (t *CloudSpeechTranscriber) Warm(ctx context.Context) error {
	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		CredentialsJSON: []byte(t.credentialsJSON),
		Scopes:          []string{"https://www.googleapis.com/auth/cloud-platform"},
	})
	if err != nil {
		return fmt.Errorf("detect credentials: %w", err)
	}

	opts := []option.ClientOption{
		option.WithAuthCredentials(creds),
	}
	if t.location != "global" {
		opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-speech.googleapis.com:%d", t.location, speechAPIEndpointPort)))
	}

	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("create speech client: %w", err)
	}
	t.client = client
	return nil
}

func (t *CloudSpeechTranscriber) Transcribe(ctx context.Context, req engine.TranscribeRequest) (*engine.TranscribeResult, error) {
	content, err := os.ReadFile(req.AudioPath)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}

	resp, err := t.client.Recognize(ctx, &speechpb.RecognizeRequest{
		Recognizer: fmt.Sprintf("projects/%s/locations/%s/recognizers/_", t.projectID, t.location),
		Config: &speechpb.RecognitionConfig{
			Model:         t.model,
			LanguageCodes: []string{req.Language},
			DecodingConfig: &speechpb.RecognitionConfig_AutoDecodingConfig{
				AutoDecodingConfig: &speechpb.AutoDetectDecodingConfig{},
			},
			Features: &speechpb.RecognitionFeatures{},
		},
		AudioSource: &speechpb.RecognizeRequest_Content{Content: content},
	})
	if err != nil {
		return nil, fmt.Errorf("recognize: %w", err)
	}

	var text strings.Builder
	for _, result := range resp.GetResults() {
		if len(result.GetAlternatives()) == 0 {
			continue
		}
		text.WriteString(result.GetAlternatives()[0].GetTranscript())
	}
	return &engine.TranscribeResult{Text: text.String()}, nil
}
