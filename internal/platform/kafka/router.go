package kafka

import (
	"slices"
)

// Router selects a topic from an event name using a static table.
// Names without an entry go to the fallback topic.
type Router struct {
	routes   map[string]string
	fallback string
}

func NewRouter(fallback string, routes map[string]string) *Router {
	r := &Router{routes: make(map[string]string, len(routes)), fallback: fallback}
	for name, topic := range routes {
		r.routes[name] = topic
	}
	return r
}

func (r *Router) TopicFor(eventName string) string {
	if topic, ok := r.routes[eventName]; ok {
		return topic
	}
	return r.fallback
}

// Topics returns every topic the router can select, sorted.
func (r *Router) Topics() []string {
	topics := []string{r.fallback}
	for _, topic := range r.routes {
		if !slices.Contains(topics, topic) {
			topics = append(topics, topic)
		}
	}
	slices.Sort(topics)
	return topics
}
