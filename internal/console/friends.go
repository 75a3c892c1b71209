package console

import "context"

func (a *App) addFriend(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("add-friend", "expected username")
	}
	if err := a.users.AddFriend(a.session, args[0]); err != nil {
		return err
	}
	a.out.Message("you and %s are now friends", args[0])
	return nil
}

func (a *App) removeFriend(_ context.Context, args []string) error {
	if len(args) != 1 {
		return usage("remove-friend", "expected username")
	}
	if err := a.users.RemoveFriend(a.session, args[0]); err != nil {
		return err
	}
	a.out.Message("you and %s are no longer friends", args[0])
	return nil
}

func (a *App) viewFriends(_ context.Context, _ []string) error {
	friends, err := a.users.Friends(a.session)
	if err != nil {
		return err
	}
	a.out.Names("friends", friends)
	return nil
}
