package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/denovbaraka/storefront-backend/internal/catalog"
	"github.com/denovbaraka/storefront-backend/internal/orders"
	"github.com/denovbaraka/storefront-backend/pkg/config"
	pkgerrors "github.com/denovbaraka/storefront-backend/pkg/errors"
	"github.com/denovbaraka/storefront-backend/pkg/logger"
)

const defaultAPIBase = "https://api.telegram.org"

// statusText maps lifecycle states to the operator-facing wording.
var statusText = map[orders.Status]string{
	orders.StatusProcessing: "В обработке",
	orders.StatusDelivering: "Доставляется",
	orders.StatusCompleted:  "Доставлено",
	orders.StatusCancelled:  "Отменен",
}

var productActionText = map[catalog.ProductAction]string{
	catalog.ProductActionCreated: "добавлен",
	catalog.ProductActionUpdated: "обновлен",
	catalog.ProductActionDeleted: "удален",
}

// Dispatcher posts operator notifications to a Telegram chat. Dispatch is
// fire-and-forget: callers log returned errors and move on, an unreachable bot
// never affects the order flow. When no bot token is configured every method
// is a silent no-op.
type Dispatcher struct {
	cfg     config.TelegramConfig
	apiBase string
	http    *http.Client
	logg    *logger.Logger

	// Orders store only the free-delivery flag, so announcements restate
	// the configured fee.
	deliveryFee int

	// Repeated status flips inside the debounce window send once per
	// (order, status) pair.
	mu   sync.Mutex
	seen map[string]time.Time
	now  func() time.Time
}

// NewDispatcher builds the notifier from config.
func NewDispatcher(cfg config.TelegramConfig, deliveryFee int, logg *logger.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:         cfg,
		apiBase:     defaultAPIBase,
		http:        &http.Client{Timeout: 10 * time.Second},
		logg:        logg,
		deliveryFee: deliveryFee,
		seen:        make(map[string]time.Time),
		now:         time.Now,
	}
}

// NotifyNewOrder sends the full order summary to the operators chat.
func (d *Dispatcher) NotifyNewOrder(ctx context.Context, order orders.Order) error {
	if !d.cfg.Enabled() {
		return nil
	}
	return d.sendMessage(ctx, formatNewOrder(order, d.deliveryFee))
}

// NotifyStatusChange announces a lifecycle transition. Duplicate announcements
// for the same order and status within the debounce window are dropped.
func (d *Dispatcher) NotifyStatusChange(ctx context.Context, orderID string, status orders.Status) error {
	if !d.cfg.Enabled() {
		return nil
	}
	if !d.shouldSend(orderID, status) {
		return nil
	}

	text := fmt.Sprintf("📦 Заказ #%s\nСтатус: %s", shortID(orderID), statusLabel(status))
	return d.sendMessage(ctx, text)
}

// NotifyProductChange announces an admin catalog mutation.
func (d *Dispatcher) NotifyProductChange(ctx context.Context, action catalog.ProductAction, product catalog.Product) error {
	if !d.cfg.Enabled() {
		return nil
	}

	label, ok := productActionText[action]
	if !ok {
		label = string(action)
	}
	text := fmt.Sprintf("🍴 Товар %q %s\nЦена: %s сум", product.Name, label, formatAmount(product.Price))
	return d.sendMessage(ctx, text)
}

// shouldSend records the (order, status) pair and reports whether it is new
// within the debounce window. Stale entries are pruned on the way through.
func (d *Dispatcher) shouldSend(orderID string, status orders.Status) bool {
	key := orderID + "|" + string(status)
	now := d.now()

	d.mu.Lock()
	defer d.mu.Unlock()

	for k, at := range d.seen {
		if now.Sub(at) >= d.cfg.DebounceWindow {
			delete(d.seen, k)
		}
	}

	if at, ok := d.seen[key]; ok && now.Sub(at) < d.cfg.DebounceWindow {
		return false
	}
	d.seen[key] = now
	return true
}

type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

func (d *Dispatcher) sendMessage(ctx context.Context, text string) error {
	payload, err := json.Marshal(sendMessageRequest{ChatID: d.cfg.ChatID, Text: text})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode telegram payload")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", d.apiBase, d.cfg.BotToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build telegram request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.http.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "telegram sendMessage")
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return pkgerrors.New(pkgerrors.CodeDependency,
			fmt.Sprintf("telegram API returned %d", resp.StatusCode))
	}
	return nil
}

// formatNewOrder renders the new-order announcement.
func formatNewOrder(order orders.Order, deliveryFee int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🆕 Новый заказ #%s!\n\n", shortID(order.ID))
	fmt.Fprintf(&b, "👤 Клиент: %s\n", order.Customer.Name)
	fmt.Fprintf(&b, "📞 Телефон: %s\n", order.Customer.Phone)
	fmt.Fprintf(&b, "🏠 Адрес: %s\n\n", order.Customer.Address)

	b.WriteString("🛒 Товары:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%s x %d = %s сум\n", item.Name, item.Quantity, formatAmount(item.Subtotal()))
	}

	fmt.Fprintf(&b, "\n💰 Сумма товаров: %s сум\n", formatAmount(order.Total))
	if order.FreeDelivery {
		b.WriteString("🚚 Доставка: Бесплатно\n")
		fmt.Fprintf(&b, "💵 Итого: %s сум", formatAmount(order.Total))
	} else {
		fmt.Fprintf(&b, "🚚 Доставка: %s сум\n", formatAmount(deliveryFee))
		fmt.Fprintf(&b, "💵 Итого: %s сум", formatAmount(order.Total+deliveryFee))
	}

	return b.String()
}

func statusLabel(status orders.Status) string {
	if label, ok := statusText[status]; ok {
		return label
	}
	return string(status)
}

// shortID is the operator-facing order reference, the last five characters of
// the id.
func shortID(id string) string {
	if len(id) <= 5 {
		return id
	}
	return id[len(id)-5:]
}

// formatAmount groups thousands with commas, matching the storefront's
// display formatting.
func formatAmount(amount int) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := fmt.Sprintf("%d", amount)
	if len(digits) <= 3 {
		return sign + digits
	}

	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return sign + b.String()
}
