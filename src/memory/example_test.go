package memory

import "fmt"

func ExampleConversation_Render() {
	conv := NewConversation(0)
	conv.Append(
		Turn{Role: RoleUser, Content: "Where did curling originate?"},
		Turn{Role: RoleAssistant, Content: "Scotland."},
	)
	fmt.Print(conv.Render())
	// Output:
	// User: Where did curling originate?
	// Assistant: Scotland.
}
