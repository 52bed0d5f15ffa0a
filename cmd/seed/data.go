package main

import "github.com/oksasatya/protocol-blackout/internal/domain/entity"

var quizQuestions = []entity.Question{
	{ID: 1, Category: "basics", Question: "What does the 'S' in HTTPS stand for?", Answer: "Secure", Options: []string{"Simple", "Secure", "Server", "Session"}},
	{ID: 2, Category: "basics", Question: "Which of these is the strongest password?", Answer: "c0rrect-h0rse-Battery!", Options: []string{"password123", "qwerty", "c0rrect-h0rse-Battery!", "letmein"}},
	{ID: 3, Category: "basics", Question: "What is phishing?", Answer: "Tricking someone into revealing credentials", Options: []string{"A firewall rule", "Tricking someone into revealing credentials", "A type of encryption", "A backup strategy"}},
	{ID: 4, Category: "basics", Question: "What does 2FA add to a login?", Answer: "A second independent factor", Options: []string{"A longer password", "A second independent factor", "A captcha", "A VPN"}},
	{ID: 5, Category: "network", Question: "Which port does HTTPS use by default?", Answer: "443", Options: []string{"21", "80", "443", "8080"}},
	{ID: 6, Category: "network", Question: "What does a firewall primarily do?", Answer: "Filter network traffic", Options: []string{"Encrypt disks", "Filter network traffic", "Store passwords", "Scan email"}},
	{ID: 7, Category: "crypto", Question: "Which of these is a hash function?", Answer: "SHA-256", Options: []string{"AES", "RSA", "SHA-256", "TLS"}},
	{ID: 8, Category: "crypto", Question: "Why are passwords stored hashed?", Answer: "So a leaked database does not reveal them", Options: []string{"To save space", "So a leaked database does not reveal them", "To make login faster", "It is required by HTTP"}},
	{ID: 9, Category: "forensics", Question: "Many failed logins from one IP in a log usually indicate?", Answer: "A brute-force attempt", Options: []string{"A backup job", "A brute-force attempt", "A DNS change", "A software update"}},
	{ID: 10, Category: "forensics", Question: "Which file usually records SSH logins on Linux?", Answer: "/var/log/auth.log", Options: []string{"/etc/passwd", "/var/log/auth.log", "/tmp/ssh", "/boot/grub"}},
}

var passwordTargets = []entity.PasswordTarget{
	{ID: "pt-01", Name: "Intern Laptop", RequiredKeywords: []string{"coffee", "2024"}, Difficulty: "easy", Color: "#4caf50"},
	{ID: "pt-02", Name: "Admin Console", RequiredKeywords: []string{"root", "blackout", "!"}, Difficulty: "medium", Color: "#ff9800"},
	{ID: "pt-03", Name: "Core Mainframe", RequiredKeywords: []string{"protocol", "cipher", "7", "#"}, Difficulty: "hard", Color: "#f44336"},
}
