package handler

import (
	"context"
	"log/slog"

	"github.com/rickgao/captainup-firehose/internal/dispatch"
	"github.com/rickgao/captainup-firehose/internal/message"
)

// Event types delivered by the feed.
const (
	TypeRewardClaimed   = "reward.claimed"
	TypeAcquireShopItem = "acquire_shop_item"
	TypeAchieve         = "achieve"
	TypeCaptainMessage  = "captain message"
	TypeLevelUp         = "level_up"
	TypeDecayPoints     = "captain_decay_points"
	TypeTierKept        = "tier_kept"
)

// Default returns the handler set registered at startup.
func Default(logger *slog.Logger) map[string]dispatch.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &handlers{logger: logger}
	return map[string]dispatch.Handler{
		TypeRewardClaimed:   dispatch.HandlerFunc(h.rewardClaimed),
		TypeAcquireShopItem: dispatch.HandlerFunc(h.acquireShopItem),
		TypeAchieve:         dispatch.HandlerFunc(h.achieve),
		TypeCaptainMessage:  dispatch.HandlerFunc(h.captainMessage),
		TypeLevelUp:         dispatch.HandlerFunc(h.levelUp),
		TypeDecayPoints:     dispatch.HandlerFunc(h.decayPoints),
		TypeTierKept:        dispatch.HandlerFunc(h.tierKept),
	}
}

type handlers struct {
	logger *slog.Logger
}

// missing logs an event that lacks its identifying fields.
func (h *handlers) missing(ev message.EventRecord, fields string) error {
	h.logger.Warn("event missing required fields",
		"type", ev.Type,
		"fields", fields,
		"payload", ev.Payload,
	)
	return nil
}

func (h *handlers) rewardClaimed(_ context.Context, ev message.EventRecord) error {
	p := Payload(ev.Payload)
	data := p.Map("data")
	reward := data.Map("data")

	user := data.String("user")
	rewardID := reward.String("id")
	if user == "" || rewardID == "" {
		return h.missing(ev, "user, reward id")
	}

	h.logger.Info("reward claimed",
		"event_id", p.String("_id"),
		"user", user,
		"user_name", data.String("user_data", "name"),
		"reward", data.String("name"),
		"reward_id", rewardID,
		"reward_type", data.String("reward_type"),
		"amount", reward.Number("amount"),
		"claim_type", reward.String("claim_type"),
		"event_ts", data.String("timestamp"),
	)
	return nil
}

func (h *handlers) acquireShopItem(_ context.Context, ev message.EventRecord) error {
	p := Payload(ev.Payload)
	data := p.Map("data")
	asset := data.Map("data")

	user := data.String("user")
	assetID := asset.String("id")
	if user == "" || assetID == "" {
		return h.missing(ev, "user, asset id")
	}

	h.logger.Info("asset acquired",
		"event_id", p.String("_id"),
		"user", user,
		"user_name", data.String("user_data", "name"),
		"asset", asset.String("name"),
		"asset_id", assetID,
		"asset_type", asset.String("asset_type"),
		"amount", asset.Number("amount"),
		"coins_spent", data.Number("currencies", "coins", "amount"),
		"event_ts", data.String("timestamp"),
	)
	return nil
}

func (h *handlers) achieve(_ context.Context, ev message.EventRecord) error {
	p := Payload(ev.Payload)
	badge := p.Map("data")

	user := p.String("user")
	name := badge.String("name")
	if user == "" || name == "" {
		return h.missing(ev, "user, badge name")
	}

	h.logger.Info("badge achieved",
		"user", user,
		"user_name", p.String("user_data", "name"),
		"badge", name,
		"badge_id", badge.String("id"),
		"times_completed", badge.Number("times_completed"),
		"points_received", p.Number("currencies", "points", "amount_received"),
		"coins_received", p.Number("currencies", "coins", "amount_received"),
		"event_ts", p.String("timestamp"),
	)
	return nil
}

func (h *handlers) captainMessage(_ context.Context, ev message.EventRecord) error {
	p := Payload(ev.Payload)
	msg := p.Map("data")

	user := p.String("user")
	msgID := msg.String("id")
	if user == "" || msgID == "" {
		return h.missing(ev, "user, message id")
	}

	h.logger.Info("captain message received",
		"event_id", p.String("_id"),
		"user", user,
		"user_name", p.String("user_data", "name"),
		"message_id", msgID,
		"title", msg.String("title"),
		"points_received", p.Number("currencies", "points", "amount_received"),
		"coins_received", p.Number("currencies", "coins", "amount_received"),
		"event_ts", p.String("timestamp"),
	)
	return nil
}

func (h *handlers) levelUp(_ context.Context, ev message.EventRecord) error {
	p := Payload(ev.Payload)
	data := p.Map("data")
	level := data.Map("data")

	user := data.String("user")
	name := level.String("name")
	if user == "" || name == "" {
		return h.missing(ev, "user, level name")
	}

	h.logger.Info("level up",
		"event_id", p.String("_id"),
		"user", user,
		"user_name", data.String("user_data", "name"),
		"level_num", level.Number("level_num"),
		"level_name", name,
		"level_id", level.String("id"),
		"points_change", data.Number("currencies", "points", "amount_received"),
		"event_ts", data.String("timestamp"),
	)
	return nil
}

func (h *handlers) decayPoints(_ context.Context, ev message.EventRecord) error {
	p := Payload(ev.Payload)
	data := p.Map("data")

	user := p.String("user")
	if user == "" {
		return h.missing(ev, "user")
	}

	h.logger.Info("currency decayed",
		"event_id", p.String("_id"),
		"user", user,
		"app", p.String("app"),
		"points_decayed", data.Number("currencies", "points", "amount"),
		"points_after_decay", data.Number("user_data", "current_currencies", "points"),
		"event_ts", data.String("timestamp"),
	)
	return nil
}

func (h *handlers) tierKept(_ context.Context, ev message.EventRecord) error {
	p := Payload(ev.Payload)

	user := p.String("user")
	if user == "" {
		return h.missing(ev, "user")
	}

	h.logger.Info("tier kept",
		"event_id", p.String("_id"),
		"user", user,
	)
	return nil
}
