// Package chat owns one-to-one chats between consumers and creators, their
// message history and realtime fan-out.
package chat
