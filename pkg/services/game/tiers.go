package game

// TierFor maps an NFT holding count to a reward tier. The highest
// threshold met wins.
func TierFor(nftCount int64) int64 {
	switch {
	case nftCount >= 150:
		return 11
	case nftCount >= 100:
		return 10
	case nftCount >= 90:
		return 9
	case nftCount >= 80:
		return 8
	case nftCount >= 70:
		return 7
	case nftCount >= 60:
		return 6
	case nftCount >= 50:
		return 5
	case nftCount >= 40:
		return 4
	case nftCount >= 30:
		return 3
	case nftCount >= 20:
		return 2
	case nftCount >= 10:
		return 1
	}
	return 0
}

// DailyReward returns the UFOS granted by a daily claim: a base amount
// per NFT held plus a tier bonus.
func DailyReward(nftCount int64) int64 {
	return nftCount*5 + TierFor(nftCount)*10
}
