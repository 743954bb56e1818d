package bitrix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const leadListMethod = "crm.lead.list.json"

// maxPages защищает от зацикливания, если Bitrix24 вернет некорректный next
const maxPages = 1000

// Client клиент входящего вебхука Bitrix24
type Client struct {
	webhookURL string
	batchSize  int
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента Bitrix24
// webhookURL вида https://portal.bitrix24.ru/rest/1/secret
func NewClient(webhookURL string, timeout time.Duration, batchSize int, log Logger) *Client {
	if batchSize <= 0 {
		batchSize = 50
	}

	return &Client{
		webhookURL: strings.TrimRight(webhookURL, "/"),
		batchSize:  batchSize,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetLeadStatuses возвращает стадию (STATUS_ID) для каждого найденного лида
// Лиды запрашиваются пачками по batchSize ID, каждая пачка читается постранично.
// Лиды, которых нет в Bitrix24, в результат не попадают.
func (c *Client) GetLeadStatuses(ctx context.Context, leadIDs []int64) (map[int64]string, error) {
	statuses := make(map[int64]string, len(leadIDs))

	for from := 0; from < len(leadIDs); from += c.batchSize {
		to := from + c.batchSize
		if to > len(leadIDs) {
			to = len(leadIDs)
		}

		if err := c.fetchBatch(ctx, leadIDs[from:to], statuses); err != nil {
			return nil, err
		}
	}

	c.log.Info("Bitrix: fetched statuses for %d of %d leads", len(statuses), len(leadIDs))
	return statuses, nil
}

func (c *Client) fetchBatch(ctx context.Context, ids []int64, out map[int64]string) error {
	filterIDs := make([]string, len(ids))
	for i, id := range ids {
		filterIDs[i] = strconv.FormatInt(id, 10)
	}

	start := 0
	for page := 0; page < maxPages; page++ {
		resp, err := c.listLeads(ctx, &leadListRequest{
			Filter: map[string]interface{}{"@ID": filterIDs},
			Select: []string{"ID", "STATUS_ID"},
			Start:  start,
		})
		if err != nil {
			return err
		}

		for _, lead := range resp.Result {
			id, err := strconv.ParseInt(lead.ID, 10, 64)
			if err != nil {
				return fmt.Errorf("%w: invalid lead ID %q", ErrInvalidResponse, lead.ID)
			}
			out[id] = lead.StatusID
		}

		if resp.Next == nil {
			return nil
		}
		if *resp.Next <= start {
			return fmt.Errorf("%w: next=%d does not advance from start=%d", ErrInvalidResponse, *resp.Next, start)
		}
		start = *resp.Next
	}

	return fmt.Errorf("%w: too many pages", ErrInvalidResponse)
}

func (c *Client) listLeads(ctx context.Context, body *leadListRequest) (*leadListResponse, error) {
	url := fmt.Sprintf("%s/%s", c.webhookURL, leadListMethod)

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusServiceUnavailable, resp.StatusCode == http.StatusTooManyRequests,
		resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status code %d: %s", ErrUnavailable, resp.StatusCode, readError(resp.Body))
	default:
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, readError(resp.Body))
	}

	// Парсим ответ
	var result leadListResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &result, nil
}

// readError извлекает описание ошибки из тела ответа
func readError(body io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(body, 4096))

	var e errorResponse
	if err := json.Unmarshal(raw, &e); err == nil && e.Error != "" {
		return fmt.Sprintf("%s: %s", e.Error, e.ErrorDescription)
	}
	return string(raw)
}
