/*
Package authsdk provides a client SDK for the reel passwordless authentication
service, plus the wire types shared with the server.

# SDKClient vs Session

  - SDKClient: unauthenticated ceremony calls that end in a session
  - Session: calls made with a session bearer token

Every successful finish returns a *Session:

	client := authsdk.NewSDKClient("https://auth.example.com")

	start, err := client.StartEmailLogin(ctx, "alice@example.com")
	// ... the user reads the code from their inbox ...
	session, err := client.FinishEmailLogin(ctx, start.Challenge, code)

	passkeys, err := session.ListPasskeys(ctx)
	err = session.Logout(ctx)

Passkey ceremonies hand the browser the publicKey options from the start
response and forward the resulting credential JSON untouched:

	start, err := client.StartRegistration(ctx, "alice", "alice@example.com")
	// navigator.credentials.create({publicKey: start.PublicKey})
	session, err := client.FinishRegistration(ctx, authsdk.RegisterFinishRequest{
		Challenge:   start.Challenge,
		Passkey:     credentialJSON,
		DeviceLabel: "Laptop",
	})

A stored token can be resumed with SDKClient.NewSession.

# Error Handling

Non-2xx responses are returned as *APIError carrying the stable error code:

	_, err := client.StartLogin(ctx, "ghost")
	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == authsdk.ErrorCodeUserNotFound {
		// offer registration instead
	}

# Thread Safety

Sessions are safe for concurrent use.
*/
package authsdk
