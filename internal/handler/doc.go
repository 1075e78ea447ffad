// Package handler contains the per-event-type observers for Captain Up
// firehose events.
//
// Each handler extracts the fields it cares about and writes one structured
// log line. Fields are read through Payload, which tolerates missing, null,
// and wrongly-typed values, so a handler only warns when the identifying
// fields of an event are absent.
//
// Payload shapes, as delivered by the feed:
//
//	reward.claimed        data.{reward_type,name,user,user_data,data.{id,amount,claim_type}}
//	acquire_shop_item     data.{user,currencies.coins.amount,user_data,data.{id,name,amount}}
//	achieve               {user,currencies.{points,coins}.amount_received,data.{id,name}}
//	captain message       {user,currencies,user_data,data.{id,title}}
//	level_up              data.{user,currencies.points.amount_received,user_data,data.{id,name,level_num}}
//	captain_decay_points  {user,app,data.{currencies.points.amount,user_data.current_currencies.points}}
//	tier_kept             {user}
package handler
