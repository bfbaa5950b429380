package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Summary is the structured settlement digest posted to the guild channel.
type Summary struct {
	Uploader    string
	Guild       string
	Kills       int
	Deaths      int
	Mistakes    int
	Money       int64
	MoneyText   string
	Mode        string
	BankAccount string
}

// Webhook posts settlement summaries to a Discord-style webhook: a JSON
// body with a single content field.
type Webhook struct {
	url    string
	client *http.Client
}

func NewWebhook(url string) *Webhook {
	return &Webhook{url: url, client: &http.Client{}}
}

func (w *Webhook) Notify(ctx context.Context, sum Summary) error {
	if w.url == "" {
		return nil
	}

	content := fmt.Sprintf(
		"擊殺結算通知\n上傳者：%s\n幫會：%s\n擊殺：%d　死亡：%d　誤擊：%d\n模式：%s\n金額：%s\n匯款帳號：%s",
		sum.Uploader, sum.Guild, sum.Kills, sum.Deaths, sum.Mistakes,
		sum.Mode, sum.MoneyText, sum.BankAccount,
	)

	body, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
