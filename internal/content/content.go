// Package content holds the static educational material shown next to the
// analysis: tips before buying and video links.
package content

import (
	"math/rand/v2"
	"net/url"
)

// Video is a titled link to educational material.
type Video struct {
	Title string
	URL   string
}

var tips = []string{
	"Develop a trading plan with clear goals, risk tolerance, and strategies.",
	"Understand technical analysis to identify buying and selling opportunities.",
	"Stay informed about market trends and news that could impact stock prices.",
	"Use stop-loss and take-profit orders to manage risk and protect gains.",
	"Practice paper trading to test strategies without financial risk.",
	"Limit your exposure by not putting all your capital in a single trade.",
	"Be mindful of trading fees and taxes, as they can eat into your profits.",
	"Learn from your trades by keeping a journal of your decisions and outcomes.",
	"Stay disciplined and don't let emotions drive your trading decisions.",
	"Continuously educate yourself on market conditions and trading techniques.",
}

var videoTopics = []string{
	"Stock market basics for beginners",
	"How to read a stock chart",
	"Moving averages explained",
	"What is volatility in investing",
	"Sharpe ratio explained",
	"How to read a balance sheet",
	"Income statement explained",
	"Cash flow statement explained",
}

// Tips returns a copy of the tips list.
func Tips() []string {
	return append([]string(nil), tips...)
}

// Videos returns the video links, one YouTube search per topic.
func Videos() []Video {
	out := make([]Video, len(videoTopics))
	for i, topic := range videoTopics {
		out[i] = Video{
			Title: topic,
			URL:   "https://www.youtube.com/results?search_query=" + url.QueryEscape(topic),
		}
	}
	return out
}

// Sample returns n distinct entries of list in an order fixed by seed.
// n is clamped to [0, len(list)]; list is not modified.
func Sample[T any](list []T, n int, seed uint64) []T {
	n = max(0, min(n, len(list)))
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	perm := r.Perm(len(list))
	out := make([]T, n)
	for i := range out {
		out[i] = list[perm[i]]
	}
	return out
}
