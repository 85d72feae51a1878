// Package identity turns a raw access token and decoded ID-token claims
// into a normalized Azure account record.
//
// The Hydrator lists the directory tenants the signed-in user can access,
// promotes the home tenant to the front, classifies the issuing
// organization, and assembles the Account. Account construction is a pure
// function with fallbacks for every optional claim, so hydration never
// fails for lack of tenant metadata.
package identity
