// Package platform implements collectors for each prediction-market
// platform (Polymarket, Kalshi, Prediction-Market, Manifold).
//
// All collectors share a retrying REST client and normalize their
// listings to model.Listing: prices as implied probability (0.0-1.0),
// volumes in platform-native units.
package platform
