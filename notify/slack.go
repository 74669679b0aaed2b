package notify

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"releasetracker/app/models"
	"releasetracker/log"

	"github.com/nlopes/slack"
)

// Notifier is told about releases whose checklist has just been completed.
type Notifier interface {
	ReleaseCompleted(release models.Release)
}

type Noop struct{}

func (Noop) ReleaseCompleted(models.Release) {}

type SlackNotifier struct {
	WebhookURL string
	Client     *http.Client
}

const webhookTimeout = 10 * time.Second

// NewNotifier returns a Slack notifier, or a no-op one when no webhook is
// configured.
func NewNotifier(webhookURL string) Notifier {
	if webhookURL == "" {
		return Noop{}
	}
	return &SlackNotifier{
		WebhookURL: webhookURL,
		Client:     &http.Client{Timeout: webhookTimeout},
	}
}

const (
	green = "#00FF00"
	yarly = "https://i.imgur.com/LWRp6ZT.png"
)

// ReleaseCompleted posts in the background and returns immediately.
func (n *SlackNotifier) ReleaseCompleted(release models.Release) {
	progress := release.Progress()
	attachment := slack.Attachment{
		Color:    green,
		Title:    fmt.Sprintf("%s %s is done", release.ReleaseName, release.Version),
		Text:     fmt.Sprintf("All %d checklist items are complete for the release on %s.", progress.Total, release.ReleaseDate),
		Ts:       json.Number(strconv.FormatInt(time.Now().Unix(), 10)),
		ThumbURL: yarly,
		Fields: []slack.AttachmentField{
			{Title: "Version", Value: release.Version, Short: true},
			{Title: "Release date", Value: release.ReleaseDate.String(), Short: true},
		},
	}
	go n.post(attachment)
}

func (n *SlackNotifier) post(attachment slack.Attachment) {
	if _, ok := os.LookupEnv("DEBUG"); ok {
		return
	}
	if err := n.send(attachment); err != nil {
		log.LogAppErr(fmt.Sprintf("Cannot post to slack webhook_url %s", n.WebhookURL), err)
	}
}

func (n *SlackNotifier) send(attachment slack.Attachment) error {
	client := n.Client
	if client == nil {
		client = &http.Client{Timeout: webhookTimeout}
	}
	msg := slack.WebhookMessage{
		Attachments: []slack.Attachment{attachment},
	}
	return slack.PostWebhookCustomHTTP(n.WebhookURL, client, &msg)
}
