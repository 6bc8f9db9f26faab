package proto

type CreateGroupRequest struct {
	Name string `json:"name,omitempty"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupId string `json:"groupId"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type JoinGroupRequest struct {
	GroupId string `json:"groupId"`
}

type JoinGroupResponse struct {
	Group *Group `json:"group"`
}

type LeaveGroupRequest struct {
	GroupId string `json:"groupId"`
}

type LeaveGroupResponse struct{}
