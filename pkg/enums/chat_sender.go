package enums

import "fmt"

// ChatSender identifies which side of a storefront conversation wrote a message.
type ChatSender string

const (
	ChatSenderCustomer ChatSender = "customer"
	ChatSenderStore    ChatSender = "store"
)

// String implements fmt.Stringer.
func (c ChatSender) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ChatSender.
func (c ChatSender) IsValid() bool {
	return c == ChatSenderCustomer || c == ChatSenderStore
}

// ParseChatSender converts raw input into a ChatSender.
func ParseChatSender(value string) (ChatSender, error) {
	switch ChatSender(value) {
	case ChatSenderCustomer:
		return ChatSenderCustomer, nil
	case ChatSenderStore:
		return ChatSenderStore, nil
	}
	return "", fmt.Errorf("invalid chat sender %q", value)
}
