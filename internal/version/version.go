package version

// Version は現在のリリースバージョン
const Version = "0.3.1"
