package web

import (
	vm "github.com/ericfisherdev/loginform/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/loginform/internal/domain/model"
)

const pageTitle = "Sign in"

// toLoginPageViewModel builds the page for a fresh GET or a submit result.
// Pass an empty outcome for a page without a message box.
func toLoginPageViewModel(outcome model.Outcome, username, bannerHTML, csrf string) vm.LoginPageViewModel {
	page := vm.LoginPageViewModel{
		Title:      pageTitle,
		BannerHTML: bannerHTML,
		Username:   username,
		CSRFToken:  csrf,
	}
	if outcome == "" {
		return page
	}

	page.Message = &vm.MessageViewModel{
		Text: outcome.Message(),
		Kind: messageKind(outcome),
	}
	page.FocusPassword = outcome == model.OutcomePasswordRequired || outcome == model.OutcomeInvalidCredentials
	return page
}

func messageKind(o model.Outcome) vm.MessageKind {
	switch {
	case o.Succeeded():
		return vm.MessageSuccess
	case o.IsValidation():
		return vm.MessageWarning
	default:
		return vm.MessageError
	}
}
