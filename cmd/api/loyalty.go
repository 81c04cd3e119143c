package main

import "net/http"

// getLoyaltyHandler godoc
//
//	@Summary		Get loyalty balance
//	@Description	Available points and what they are worth at checkout
//	@Tags			loyalty
//	@Produce		json
//	@Success		200	{object}	domain.LoyaltyAccount
//	@Security		ApiKeyAuth
//	@Router			/loyalty [get]
func (app *application) getLoyaltyHandler(w http.ResponseWriter, r *http.Request) {
	account, err := app.loyaltyService.GetAccount(r.Context(), callerIdentity(r).UserID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonRespone(w, http.StatusOK, account); err != nil {
		app.internalServerError(w, r, err)
	}
}
