package notifyservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с NotifyService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента NotifyService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Send отправляет уведомление о событии записи
func (c *Client) Send(ctx context.Context, notification Notification) error {
	url := fmt.Sprintf("%s/internal/notifications", c.baseURL)

	payload, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal notification: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusCreated:
		return nil
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}
}

// SendWithGracefulDegradation отправляет уведомление с graceful degradation
// При недоступности NotifyService возвращает ErrServiceDegraded: запись уже
// создана, поэтому ошибка уведомления не должна откатывать операцию
func (c *Client) SendWithGracefulDegradation(ctx context.Context, notification Notification) error {
	// Интеграция может быть выключена конфигом - тогда клиент nil
	if c == nil {
		return nil
	}

	c.log.Info("Sending %s notification for appointment_id=%d", notification.Event, notification.AppointmentID)

	if err := c.Send(ctx, notification); err != nil {
		// Недоступность сервиса, timeout, некорректный ответ - всё это не повод
		// ронять операцию над записью. Логируем на уровне ERROR и деградируем.
		c.log.Error("NotifyService unavailable, applying graceful degradation for appointment_id=%d: %v", notification.AppointmentID, err)
		return fmt.Errorf("%w: appointment_id=%d, error=%v", ErrServiceDegraded, notification.AppointmentID, err)
	}

	c.log.Info("Successfully sent %s notification for appointment_id=%d", notification.Event, notification.AppointmentID)
	return nil
}
