// Package events defines the canonical, backend-agnostic event vocabulary
// emitted for a single conversational turn. Exactly one SystemInit opens a
// turn and exactly one terminal result (ResultSuccess or ResultError) ends it;
// everything in between preserves upstream emission order.
package events
