package visitor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shaiso/Raider/internal/domain"
	"github.com/shaiso/Raider/internal/geo"
)

// defaultTimeout — таймаут одного визита.
const defaultTimeout = 30 * time.Second

// HTTPVisitor выполняет визиты через внешний протокольный сервис.
//
// Сам протокол (логин на удалённом сервисе, построение запроса, разбор
// ответа, captcha) живёт за этим HTTP-интерфейсом; raider видит только
// числовой результат: -1 — transient block, 0 — пусто, >0 — успех.
type HTTPVisitor struct {
	baseURL string
	client  *http.Client
}

// NewHTTP создаёт HTTPVisitor.
func NewHTTP(baseURL string) *HTTPVisitor {
	return &HTTPVisitor{
		baseURL: baseURL,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// visitRequest — тело запроса к визит-сервису.
type visitRequest struct {
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
	ExternalID string  `json:"external_id"`
	JobID      int64   `json:"job_id"`
}

// visitResponse — тело ответа визит-сервиса.
type visitResponse struct {
	Result int `json:"result"`
}

// Visit выполняет один визит по координатам.
func (v *HTTPVisitor) Visit(ctx context.Context, point geo.Point, job *domain.Job) (domain.VisitResult, error) {
	body, err := json.Marshal(visitRequest{
		Lat:        point.Lat,
		Lon:        point.Lon,
		ExternalID: job.ExternalID,
		JobID:      job.ID,
	})
	if err != nil {
		return domain.VisitNothing, fmt.Errorf("marshal visit request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/visit", bytes.NewReader(body))
	if err != nil {
		return domain.VisitNothing, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return domain.VisitNothing, fmt.Errorf("visit request: %w", err)
	}
	defer resp.Body.Close()

	// 429 от сервиса — тот же transient block, что и result=-1.
	if resp.StatusCode == http.StatusTooManyRequests {
		return domain.VisitBlocked, nil
	}
	if resp.StatusCode != http.StatusOK {
		return domain.VisitNothing, fmt.Errorf("visit service returned status %d", resp.StatusCode)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.VisitNothing, fmt.Errorf("read response: %w", err)
	}

	var vr visitResponse
	if err := json.Unmarshal(respBody, &vr); err != nil {
		return domain.VisitNothing, fmt.Errorf("unmarshal response: %w", err)
	}

	return domain.VisitResult(vr.Result), nil
}
