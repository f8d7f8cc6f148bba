package bot

import (
	"errors"
	"fmt"
	"github.com/asaskevich/EventBus"
	botApi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/maxaizer/lead-dorker/internal/domain/events"
	"github.com/maxaizer/lead-dorker/internal/logger"
	log "github.com/sirupsen/logrus"
	"sync/atomic"
)

type apiInterface interface {
	Send(chattable botApi.Chattable) (botApi.Message, error)
}

// Notifier reports finished search sessions to a single Telegram chat.
type Notifier struct {
	api    apiInterface
	chatID int64
	failed atomic.Int64
}

func NewNotifier(token string, chatID int64, bus EventBus.Bus) (*Notifier, error) {

	api, err := botApi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Infof("Authorized on account %s", api.Self.UserName)

	err = botApi.SetLogger(log.StandardLogger())
	if err != nil {
		return nil, err
	}

	return newNotifier(api, chatID, bus)
}

func newNotifier(api apiInterface, chatID int64, bus EventBus.Bus) (*Notifier, error) {

	if bus == nil {
		return nil, errors.New("bus is nil")
	}

	if chatID == 0 {
		return nil, errors.New("chat id is not set")
	}

	n := &Notifier{api: api, chatID: chatID}

	// synchronous so the count is complete before the session event is handled
	err := bus.Subscribe(events.QuerySearchedTopic, n.onQuerySearched)
	if err != nil {
		return nil, err
	}

	err = bus.SubscribeAsync(events.SessionCompletedTopic, n.onSessionCompleted, true)
	if err != nil {
		return nil, err
	}
	return n, nil
}

func (n *Notifier) onQuerySearched(event events.QuerySearched) {
	if event.Err != nil {
		n.failed.Add(1)
	}
}

func (n *Notifier) onSessionCompleted(event events.SessionCompleted) {
	text := fmt.Sprintf("Search session for %q finished: %d of %d queries searched, %d results saved",
		event.Session.UserQuery, event.Session.QueriesSearched, event.Session.TotalQueries, event.TotalResults)
	if failed := n.failed.Swap(0); failed > 0 {
		text += fmt.Sprintf("\n%d searches failed, see logs", failed)
	}
	_, _ = sendWithLogError(n.api, botApi.NewMessage(n.chatID, text))
}

func sendWithLogError(api apiInterface, chattable botApi.Chattable) (botApi.Message, error) {
	msg, err := api.Send(chattable)
	if err != nil {
		log.WithField(logger.ErrorTypeField, logger.ErrorTypeTgApi).
			Errorf("error occured while sending message: %v", err)
	}
	return msg, err
}
