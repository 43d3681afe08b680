/*
Package authsdk is the Go client for the Sauti auth service, and the home of
the wire types the service itself encodes.

An SDKClient covers the public endpoints: OTP request and login, admin login,
the geography reference data and the health probes. Logging in yields a bearer
token; wrap it in a Session for the authenticated endpoints:

	client := authsdk.NewSDKClient("https://auth.sauti.example")

	if _, err := client.RequestOTP(ctx, "0712345678"); err != nil {
		var apiErr *authsdk.APIError
		if errors.As(err, &apiErr) && apiErr.Code == authsdk.ErrorCodeRateLimited {
			// wait apiErr.RetryAfter seconds
		}
	}

	login, err := client.Login(ctx, "0712345678", "123456")
	session := client.Session(login.Token)
	if login.IsNewUser {
		_, err = session.Register(ctx, authsdk.RegisterRequest{Name: "Akinyi", WardID: 1})
	}

Every non-2xx response is returned as *APIError carrying the service error
code, description and any extra fields (retry_after, suspended_until,
required_permissions).
*/
package authsdk
