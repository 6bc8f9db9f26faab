// Package models defines the core domain models for dinnerparty.
//
// # Persistent Models
//
// The following models are stored by the storage layer:
//   - User: Registered account with a currency balance and an optional group pointer
//   - Group: A dining party that members join and leave
//
// # Process-local Models
//
// Orders and payments live only in memory for the lifetime of the process:
//   - Order: The shared order a party places, with the members expected to pay
//   - PaymentRequest / PaymentResult: One member's payment and its settlement outcome
//
// # Design Principles
//
// 1. **Single writer**: only the group registry writes both sides of the membership relation
// 2. **Avoid circular references**: Use ID strings instead of pointers for relationships
// 3. **Empty string means absent**: User.GroupID and Group.LeaderID use "" for null
package models
