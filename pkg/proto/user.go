package proto

type GetUserRequest struct {
	UserId string `json:"userId"`
}

type GetUserResponse struct {
	User *User `json:"user"`
}

// AdjustCurrencyRequest changes the caller's balance by Delta.
type AdjustCurrencyRequest struct {
	Delta float64 `json:"delta"`
}

type AdjustCurrencyResponse struct {
	User *User `json:"user"`
}
