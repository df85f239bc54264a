// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package dnsbl

import (
	"context"
	"errors"
	"time"

	"github.com/miekg/dns"
	"github.com/sirupsen/logrus"
)

// reply is one datagram that counts against the pending queries of an item.
type reply struct {
	from string
	msg  *dns.Msg
	err  error // read or unpack failure
}

// collect waits for replies to the queries in sent, which maps lowercased
// query names to the number of times they were sent. The timeout restarts
// after every counted reply; when it elapses the results collected so far
// are returned without error. In first-only mode collection stops after
// the first counted reply.
func (c *Client) collect(ctx context.Context, item string, sent map[string]int, start time.Time) ([]Result, error) {
	var results []Result
	log := c.log.WithField("item", item)

	pending := 0
	for _, n := range sent {
		pending += n
	}

	for pending > 0 {
		timer := time.NewTimer(c.timeout)
		r, ok, err := c.next(ctx, timer, sent)
		timer.Stop()
		if err != nil {
			return results, err
		}
		if !ok {
			c.metrics.timeouts.Inc()
			log.WithField("pending", pending).Debug("timed out waiting for replies")
			return results, nil
		}

		pending--
		c.metrics.replies.Inc()

		switch {
		case r.msg != nil:
			res := c.decodeResponse(r.msg, start)
			for _, l := range res {
				c.metrics.results.WithLabelValues(l.Blacklist).Inc()
			}
			results = append(results, res...)
		case errors.Is(r.err, ErrMalformedResponse):
			c.metrics.malformed.Inc()
			log.WithField("nameserver", r.from).WithError(r.err).Warn("discarding reply")
		default:
			log.WithField("nameserver", r.from).WithError(r.err).Warn("failed to read reply")
		}

		if c.firstOnly {
			return results, nil
		}
	}
	return results, nil
}

// next returns the next datagram that counts against sent. Well-formed
// replies to other names, such as late answers for an earlier item, are
// dropped without touching timer. ok is false when timer fires first.
func (c *Client) next(ctx context.Context, timer *time.Timer, sent map[string]int) (r reply, ok bool, err error) {
	for {
		select {
		case <-ctx.Done():
			return reply{}, false, ctx.Err()

		case <-timer.C:
			return reply{}, false, nil

		case dg := <-c.pool.packets:
			if dg.err != nil {
				return reply{from: dg.from, err: dg.err}, true, nil
			}
			msg, err := unpackReply(dg.buf)
			if err != nil {
				return reply{from: dg.from, err: err}, true, nil
			}
			name := questionName(msg)
			if _, ok := sent[name]; !ok {
				c.metrics.stale.Inc()
				c.log.WithFields(logrus.Fields{"query": name, "nameserver": dg.from}).Debug("dropped reply for another item")
				continue
			}
			return reply{from: dg.from, msg: msg}, true, nil
		}
	}
}
