package recommend

// partitionUsers 把用户列表切成至多 n 个连续分块，保持原始顺序。
// 用户数少于分区数时每个用户一个分块，不产生空分块。
func partitionUsers(users []int64, n int) [][]int64 {
	if len(users) == 0 {
		return nil
	}
	if n <= 0 {
		n = 1
	}
	if n > len(users) {
		n = len(users)
	}
	size := (len(users) + n - 1) / n
	out := make([][]int64, 0, n)
	for start := 0; start < len(users); start += size {
		end := start + size
		if end > len(users) {
			end = len(users)
		}
		out = append(out, users[start:end])
	}
	return out
}
