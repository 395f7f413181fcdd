package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/foliotrack/folio/internal/client/models"
	"github.com/foliotrack/folio/internal/client/services"
)

// getSimpleText, getOptionalText and getPassword are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getOptionalText = GetOptionalText
var getPassword = GetPassword

// Register prompts for an email, an optional display name and a password,
// and creates an account. A successful registration signs the user in.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	var displayName *string
	if name, ok, err := getOptionalText(a.reader, "Enter display name", os.Stdout); err != nil {
		return err
	} else if ok {
		displayName = &name
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.Auth.Register(ctx, email, password, displayName); err != nil {
		fmt.Println("Registration failed:", err)
		return err
	}

	fmt.Printf("Welcome, %s!\n", a.userLabel())
	return nil
}

// Login prompts for credentials and authenticates.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	if err := a.session.Auth.Login(ctx, email, password); err != nil {
		fmt.Println("Login failed:", err)
		return err
	}

	fmt.Printf("Welcome, %s!\n", a.userLabel())
	return nil
}

// WhoAmI prints the signed-in profile.
func (a *App) WhoAmI(ctx context.Context) error {
	st := a.session.Auth.State()
	if st.User == nil {
		fmt.Println("Not signed in")
		return nil
	}
	name := "-"
	if st.User.DisplayName != nil {
		name = *st.User.DisplayName
	}
	fmt.Printf("id: %d\nemail: %s\nname: %s\n", st.User.ID, st.User.Email, name)
	return nil
}

// UpdateProfile prompts for the profile fields to change. Skipped fields are
// left untouched on the server; entering "-" for the display name clears it.
func (a *App) UpdateProfile(ctx context.Context) error {
	var update services.ProfileUpdate

	if email, ok, err := getOptionalText(a.reader, "New email", os.Stdout); err != nil {
		return err
	} else if ok {
		update.Email = models.Some(email)
	}

	if name, ok, err := getOptionalText(a.reader, "New display name, '-' to clear", os.Stdout); err != nil {
		return err
	} else if ok {
		if name == "-" {
			update.DisplayName = models.Null[string]()
		} else {
			update.DisplayName = models.Some(name)
		}
	}

	if password, ok, err := getOptionalText(a.reader, "New password", os.Stdout); err != nil {
		return err
	} else if ok {
		update.Password = models.Some(password)
	}

	user, err := a.session.AuthService.UpdateProfile(ctx, update)
	if err != nil {
		fmt.Println("Update failed:", err)
		return err
	}

	fmt.Printf("Profile updated: %s\n", user.Email)
	a.session.Restore(ctx)
	return nil
}

// DeleteAccount asks for confirmation and deletes the signed-in account.
func (a *App) DeleteAccount(ctx context.Context) error {
	answer, err := getSimpleText(a.reader, "Delete this account permanently? Type 'yes' to confirm", os.Stdout)
	if err != nil {
		return err
	}
	if answer != "yes" {
		fmt.Println("Cancelled")
		return nil
	}

	if err := a.session.AuthService.DeleteAccount(ctx); err != nil {
		fmt.Println("Delete failed:", err)
		return err
	}

	a.session.Restore(ctx)
	a.session.Portfolio.Reset()
	fmt.Println("Account deleted")
	return nil
}

// Logout signs out and resets all local state.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		fmt.Println("Signed out locally; remote logout failed:", err)
		return err
	}
	fmt.Println("Signed out")
	return nil
}
