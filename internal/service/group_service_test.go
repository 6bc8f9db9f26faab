package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"

	pb "github.com/mmynk/dinnerparty/pkg/proto"
)

func TestCreateGroup(t *testing.T) {
	ts := setupTestServer(t, defaultServerOptions())
	alice := ts.register(t, "alice")

	resp, err := ts.groups.CreateGroup(context.Background(), authed(alice, &pb.CreateGroupRequest{Name: "Friday Tacos"}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	group := resp.Msg.Group
	if group.Id == "" {
		t.Error("expected non-empty group ID")
	}
	if group.Name != "Friday Tacos" {
		t.Errorf("name: expected 'Friday Tacos', got '%s'", group.Name)
	}
	if group.LeaderId != alice.user.Id {
		t.Errorf("leader: expected %s, got %s", alice.user.Id, group.LeaderId)
	}
	if len(group.Members) != 1 || group.Members[0] != alice.user.Id {
		t.Errorf("members: expected [%s], got %v", alice.user.Id, group.Members)
	}
	if group.Status != "active" {
		t.Errorf("status: expected active, got %s", group.Status)
	}

	t.Run("second create fails without touching the first group", func(t *testing.T) {
		_, err := ts.groups.CreateGroup(context.Background(), authed(alice, &pb.CreateGroupRequest{Name: "Other"}))
		if code := codeOf(t, err); code != connect.CodeFailedPrecondition {
			t.Errorf("expected CodeFailedPrecondition, got %v", code)
		}

		got, err := ts.groups.GetGroup(context.Background(), authed(alice, &pb.GetGroupRequest{GroupId: group.Id}))
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Msg.Group.Name != "Friday Tacos" || len(got.Msg.Group.Members) != 1 {
			t.Errorf("group changed: %+v", got.Msg.Group)
		}
	})
}

func TestCreateGroup_Unauthenticated(t *testing.T) {
	ts := setupTestServer(t, defaultServerOptions())

	_, err := ts.groups.CreateGroup(context.Background(), connect.NewRequest(&pb.CreateGroupRequest{}))
	if code := codeOf(t, err); code != connect.CodeUnauthenticated {
		t.Errorf("expected CodeUnauthenticated, got %v", code)
	}
}

func TestGetGroup_NotFound(t *testing.T) {
	ts := setupTestServer(t, defaultServerOptions())
	alice := ts.register(t, "alice")

	_, err := ts.groups.GetGroup(context.Background(), authed(alice, &pb.GetGroupRequest{GroupId: "nonexistent-id"}))
	if code := codeOf(t, err); code != connect.CodeNotFound {
		t.Errorf("expected CodeNotFound, got %v", code)
	}
}

func TestJoinAndLeaveGroup(t *testing.T) {
	ts := setupTestServer(t, defaultServerOptions())
	ctx := context.Background()
	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")
	carol := ts.register(t, "carol")

	created, err := ts.groups.CreateGroup(ctx, authed(alice, &pb.CreateGroupRequest{}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	groupID := created.Msg.Group.Id

	for _, s := range []session{bob, carol} {
		if _, err := ts.groups.JoinGroup(ctx, authed(s, &pb.JoinGroupRequest{GroupId: groupID})); err != nil {
			t.Fatalf("JoinGroup(%s) failed: %v", s.user.Username, err)
		}
	}

	t.Run("joining twice is rejected", func(t *testing.T) {
		_, err := ts.groups.JoinGroup(ctx, authed(bob, &pb.JoinGroupRequest{GroupId: groupID}))
		if code := codeOf(t, err); code != connect.CodeFailedPrecondition {
			t.Errorf("expected CodeFailedPrecondition, got %v", code)
		}
		got, _ := ts.groups.GetGroup(ctx, authed(bob, &pb.GetGroupRequest{GroupId: groupID}))
		if len(got.Msg.Group.Members) != 3 {
			t.Errorf("members: expected 3, got %v", got.Msg.Group.Members)
		}
	})

	t.Run("member leaves", func(t *testing.T) {
		if _, err := ts.groups.LeaveGroup(ctx, authed(carol, &pb.LeaveGroupRequest{GroupId: groupID})); err != nil {
			t.Fatalf("LeaveGroup failed: %v", err)
		}
		got, err := ts.groups.GetGroup(ctx, authed(alice, &pb.GetGroupRequest{GroupId: groupID}))
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Msg.Group.Status != "active" || len(got.Msg.Group.Members) != 2 {
			t.Errorf("expected active group with 2 members, got %s %v", got.Msg.Group.Status, got.Msg.Group.Members)
		}
	})

	t.Run("leaving a group you are not in", func(t *testing.T) {
		_, err := ts.groups.LeaveGroup(ctx, authed(carol, &pb.LeaveGroupRequest{GroupId: groupID}))
		if code := codeOf(t, err); code != connect.CodeFailedPrecondition {
			t.Errorf("expected CodeFailedPrecondition, got %v", code)
		}
	})

	t.Run("leader leaving disbands", func(t *testing.T) {
		if _, err := ts.groups.LeaveGroup(ctx, authed(alice, &pb.LeaveGroupRequest{GroupId: groupID})); err != nil {
			t.Fatalf("LeaveGroup failed: %v", err)
		}

		got, err := ts.groups.GetGroup(ctx, authed(alice, &pb.GetGroupRequest{GroupId: groupID}))
		if err != nil {
			t.Fatalf("GetGroup failed: %v", err)
		}
		if got.Msg.Group.Status != "disbanded" {
			t.Errorf("status: expected disbanded, got %s", got.Msg.Group.Status)
		}

		for _, s := range []session{alice, bob} {
			me, err := ts.auth.GetCurrentUser(ctx, authed(s, &pb.GetCurrentUserRequest{}))
			if err != nil {
				t.Fatalf("GetCurrentUser failed: %v", err)
			}
			if me.Msg.User.GroupId != "" {
				t.Errorf("%s still points at group %s", s.user.Username, me.Msg.User.GroupId)
			}
		}

		_, err = ts.groups.JoinGroup(ctx, authed(carol, &pb.JoinGroupRequest{GroupId: groupID}))
		if code := codeOf(t, err); code != connect.CodeFailedPrecondition {
			t.Errorf("expected CodeFailedPrecondition joining a disbanded group, got %v", code)
		}
	})
}

func TestLeaveGroup_LastMemberDeletesLeaderlessGroup(t *testing.T) {
	opts := defaultServerOptions()
	opts.leaderRole = false
	ts := setupTestServer(t, opts)
	ctx := context.Background()
	alice := ts.register(t, "alice")
	bob := ts.register(t, "bob")

	created, err := ts.groups.CreateGroup(ctx, authed(alice, &pb.CreateGroupRequest{}))
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}
	groupID := created.Msg.Group.Id
	if created.Msg.Group.LeaderId != "" {
		t.Errorf("expected no leader, got %s", created.Msg.Group.LeaderId)
	}
	if _, err := ts.groups.JoinGroup(ctx, authed(bob, &pb.JoinGroupRequest{GroupId: groupID})); err != nil {
		t.Fatalf("JoinGroup failed: %v", err)
	}

	// The creator leaving does not disband a leaderless group.
	if _, err := ts.groups.LeaveGroup(ctx, authed(alice, &pb.LeaveGroupRequest{GroupId: groupID})); err != nil {
		t.Fatalf("LeaveGroup(alice) failed: %v", err)
	}
	got, err := ts.groups.GetGroup(ctx, authed(bob, &pb.GetGroupRequest{GroupId: groupID}))
	if err != nil {
		t.Fatalf("GetGroup failed: %v", err)
	}
	if got.Msg.Group.Status != "active" || len(got.Msg.Group.Members) != 1 {
		t.Errorf("expected active group with bob only, got %s %v", got.Msg.Group.Status, got.Msg.Group.Members)
	}

	if _, err := ts.groups.LeaveGroup(ctx, authed(bob, &pb.LeaveGroupRequest{GroupId: groupID})); err != nil {
		t.Fatalf("LeaveGroup(bob) failed: %v", err)
	}
	_, err = ts.groups.GetGroup(ctx, authed(bob, &pb.GetGroupRequest{GroupId: groupID}))
	if code := codeOf(t, err); code != connect.CodeNotFound {
		t.Errorf("expected CodeNotFound after last member left, got %v", code)
	}
}
